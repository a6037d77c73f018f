package services

import (
	"context"
	"testing"

	"github.com/fgcbrasil/platform-backend/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMissionCompleteAwardsOnce(t *testing.T) {
	store := newFakeStore()
	runner := &fakeTxRunner{store: store}
	user := store.addUser(models.User{Name: "Fan", Role: models.RoleFan})
	mission := &models.Mission{ID: store.newID(), Title: "Primeira missão", XPReward: 50}
	store.missions[mission.ID] = mission

	service := NewMissionService(runner, &fakeMissionRepo{store: store}, &fakeUserRepo{store: store})

	reward, err := service.Complete(context.Background(), user.ID, mission.ID)
	require.NoError(t, err)
	assert.InDelta(t, 50, reward, 1e-9)
	assert.InDelta(t, 50, store.users[user.ID].XPTotal, 1e-9)

	// Повторное выполнение отклоняется и не меняет счет.
	_, err = service.Complete(context.Background(), user.ID, mission.ID)
	assert.ErrorIs(t, err, ErrMissionCompleted)
	assert.InDelta(t, 50, store.users[user.ID].XPTotal, 1e-9)
}

func TestMissionCompleteUnknownMission(t *testing.T) {
	store := newFakeStore()
	runner := &fakeTxRunner{store: store}
	user := store.addUser(models.User{Name: "Fan", Role: models.RoleFan})

	service := NewMissionService(runner, &fakeMissionRepo{store: store}, &fakeUserRepo{store: store})

	_, err := service.Complete(context.Background(), user.ID, 9001)
	assert.ErrorIs(t, err, ErrMissionNotFound)
	assert.Zero(t, store.users[user.ID].XPTotal)
	assert.Empty(t, store.missionsDone[user.ID])
}
