package workflow

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/spec-kit/package-tracking/internal/domain"
)

func TestProjectionTables(t *testing.T) {
	t.Run("statuses with a row project at least one write", func(t *testing.T) {
		withRows := []domain.ManagerStatus{
			domain.ManagerStatusSentToLogist,
			domain.ManagerStatusInfoSentToClient,
			domain.ManagerStatusAwaitingPayment,
			domain.ManagerStatusAwaitingShipping,
			domain.ManagerStatusPaid,
		}
		for _, s := range withRows {
			assert.False(t, ProjectManager(s).IsZero(), "manager %s", s)
		}
	})

	t.Run("statuses without a row project nothing", func(t *testing.T) {
		assert.True(t, ProjectManager(domain.ManagerStatusCreated).IsZero())
		assert.True(t, ProjectManager(domain.ManagerStatusSentToLogist).Client == nil &&
			ProjectManager(domain.ManagerStatusSentToLogist).Manager == nil)
		assert.True(t, ProjectClient(domain.ClientStatusCreated).IsZero())
		assert.True(t, ProjectLogist(domain.LogistStatusReceivedInfo).IsZero())
	})

	t.Run("settlement fans out to both counterparties", func(t *testing.T) {
		projection := ProjectManager(domain.ManagerStatusPaid)
		if assert.NotNil(t, projection.Client) {
			assert.Equal(t, domain.ClientStatusShipped, *projection.Client)
		}
		if assert.NotNil(t, projection.Logist) {
			assert.Equal(t, domain.LogistStatusPaid, *projection.Logist)
		}
		assert.Nil(t, projection.Manager, "a projection never rewrites the triggering vocabulary")
	})

	t.Run("every projected status lands in the target vocabulary", func(t *testing.T) {
		for after, projection := range managerProjections {
			if projection.Client != nil {
				_, ok := clientVocabulary[*projection.Client]
				assert.True(t, ok, "manager %s projects unknown client status", after)
			}
			if projection.Logist != nil {
				_, ok := logistVocabulary[*projection.Logist]
				assert.True(t, ok, "manager %s projects unknown logist status", after)
			}
		}
		for after, projection := range clientProjections {
			if projection.Manager != nil {
				_, ok := managerVocabulary[*projection.Manager]
				assert.True(t, ok, "client %s projects unknown manager status", after)
			}
		}
		for after, projection := range logistProjections {
			if projection.Manager != nil {
				_, ok := managerVocabulary[*projection.Manager]
				assert.True(t, ok, "logist %s projects unknown manager status", after)
			}
		}
	})
}
