package export

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danlumempouw/voiceofsoul/pkg/core/model"
)

func TestEventShareText_Admin(t *testing.T) {
	l := choirLedger()
	admin := model.User{ID: "adm", Name: "Admin", Role: model.RoleAdmin, Status: model.StatusActive}

	text, err := EventShareText(l, "e2", admin)
	require.NoError(t, err)

	assert.Contains(t, text, "*Event:* Service")
	assert.Contains(t, text, "*ATTENDANCE (SATB)*")
	assert.Contains(t, text, "PRESENT (1):")
	assert.Contains(t, text, "Bintang")
	assert.Contains(t, text, "ABSENT (1):")
	assert.Contains(t, text, "Sari, Amara (travelling)")
}

func TestEventShareText_CoordinatorSeesOwnPartOnly(t *testing.T) {
	l := choirLedger()
	coordinator := model.User{
		ID: "a1", Name: "Clara", Role: model.RoleCoordinator,
		VoicePart: model.Alto, Status: model.StatusActive,
	}

	text, err := EventShareText(l, "e1", coordinator)
	require.NoError(t, err)

	assert.Contains(t, text, "*ATTENDANCE ALTO*")
	// Coordinators get the pending list so they can chase non-responders
	assert.Contains(t, text, "NO RESPONSE (1):")
	assert.Contains(t, text, "Clara")
	// Other parts are not leaked
	assert.NotContains(t, text, "Bintang")
}

func TestEventShareText_MemberRefused(t *testing.T) {
	l := choirLedger()
	member := model.User{ID: "s2", Name: "Bintang", Role: model.RoleMember, Status: model.StatusActive}

	_, err := EventShareText(l, "e1", member)
	assert.Error(t, err)
}

func TestEventShareText_UnknownEvent(t *testing.T) {
	l := choirLedger()
	admin := model.User{ID: "adm", Role: model.RoleAdmin}

	_, err := EventShareText(l, "missing", admin)
	assert.Error(t, err)
}
