package services

import (
	"context"
	"sort"
	"sync"
	"testing"

	"github.com/fgcbrasil/platform-backend/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type raffleFixture struct {
	store   *fakeStore
	service RaffleService
	raffle  *models.Raffle
	player  *models.User
}

func newRaffleFixture(t *testing.T) *raffleFixture {
	t.Helper()

	store := newFakeStore()
	runner := &fakeTxRunner{store: store}

	raffle := &models.Raffle{ID: store.newID(), Slug: CurrentRaffleSlug, Name: "Sorteio Mensal"}
	store.raffles[CurrentRaffleSlug] = raffle
	player := store.addUser(models.User{Name: "Jogador", Role: models.RolePlayer})

	return &raffleFixture{
		store:   store,
		service: NewRaffleService(runner, &fakeRaffleRepo{store: store}, &fakeUserRepo{store: store}, nil),
		raffle:  raffle,
		player:  player,
	}
}

func TestRaffleAddParticipantSequentialNumbers(t *testing.T) {
	f := newRaffleFixture(t)

	for want := 1; want <= 3; want++ {
		got, err := f.service.AddParticipant(context.Background(), f.player.ID)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	raffle, err := f.service.GetCurrent(context.Background())
	require.NoError(t, err)
	require.Len(t, raffle.Tickets, 3)
	assert.Equal(t, f.player.Name, raffle.Tickets[0].HolderName)
}

// 50 конкурентных заявок получают ровно номера 1..50: без дыр и без
// дубликатов, независимо от порядка коммитов.
func TestRaffleAddParticipantConcurrent(t *testing.T) {
	f := newRaffleFixture(t)

	const participants = 50
	numbers := make(chan int, participants)
	var wg sync.WaitGroup
	for i := 0; i < participants; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			n, err := f.service.AddParticipant(context.Background(), f.player.ID)
			if assert.NoError(t, err) {
				numbers <- n
			}
		}()
	}
	wg.Wait()
	close(numbers)

	var issued []int
	for n := range numbers {
		issued = append(issued, n)
	}
	sort.Ints(issued)

	require.Len(t, issued, participants)
	for i, n := range issued {
		assert.Equal(t, i+1, n)
	}
}

func TestRaffleAddParticipantUnknownUser(t *testing.T) {
	f := newRaffleFixture(t)

	_, err := f.service.AddParticipant(context.Background(), 31337)
	assert.ErrorIs(t, err, ErrUserNotFound)
	assert.Empty(t, f.store.tickets)
}

func TestRaffleMissingRegistry(t *testing.T) {
	f := newRaffleFixture(t)
	delete(f.store.raffles, CurrentRaffleSlug)

	_, err := f.service.GetCurrent(context.Background())
	assert.ErrorIs(t, err, ErrRaffleNotFound)

	_, err = f.service.AddParticipant(context.Background(), f.player.ID)
	assert.ErrorIs(t, err, ErrRaffleNotFound)
}

// После сброса нумерация начинается заново с единицы.
func TestRaffleResetRestartsNumbering(t *testing.T) {
	f := newRaffleFixture(t)

	_, err := f.service.AddParticipant(context.Background(), f.player.ID)
	require.NoError(t, err)
	_, err = f.service.AddParticipant(context.Background(), f.player.ID)
	require.NoError(t, err)

	require.NoError(t, f.service.Reset(context.Background()))

	n, err := f.service.AddParticipant(context.Background(), f.player.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}
