package services

import (
	"context"
	"database/sql"
	"sync"

	"github.com/fgcbrasil/platform-backend/models"
	"github.com/fgcbrasil/platform-backend/repositories"
)

// fakeStore — общее состояние in-memory фейков. Изменяется только под
// мьютексом fakeTxRunner, поэтому конкурентные вызовы сервисов ведут себя
// как сериализуемые транзакции настоящего хранилища.
type fakeStore struct {
	users          map[int]*models.User
	organizations  map[int]*models.Organization
	championships  map[int]*models.Championship
	results        map[int][]models.PlacementResult
	participations map[int]map[int]bool // userID -> championshipID
	missions       map[int]*models.Mission
	missionsDone   map[int]map[int]bool // userID -> missionID
	raffles        map[string]*models.Raffle
	tickets        []models.RaffleTicket
	contributions  []models.Contribution
	donations      []models.Donation

	nextID int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:          make(map[int]*models.User),
		organizations:  make(map[int]*models.Organization),
		championships:  make(map[int]*models.Championship),
		results:        make(map[int][]models.PlacementResult),
		participations: make(map[int]map[int]bool),
		missions:       make(map[int]*models.Mission),
		missionsDone:   make(map[int]map[int]bool),
		raffles:        make(map[string]*models.Raffle),
		nextID:         1000,
	}
}

func (s *fakeStore) newID() int {
	s.nextID++
	return s.nextID
}

func (s *fakeStore) addUser(u models.User) *models.User {
	if u.ID == 0 {
		u.ID = s.newID()
	}
	copied := u
	s.users[copied.ID] = &copied
	return &copied
}

func (s *fakeStore) addChampionship(c models.Championship) *models.Championship {
	if c.ID == 0 {
		c.ID = s.newID()
	}
	copied := c
	s.championships[copied.ID] = &copied
	return &copied
}

// snapshot делает глубокую копию состояния; restore откатывает неудачную
// "транзакцию" к этой копии.
func (s *fakeStore) snapshot() *fakeStore {
	snap := newFakeStore()
	snap.nextID = s.nextID
	for id, u := range s.users {
		copied := *u
		snap.users[id] = &copied
	}
	for id, o := range s.organizations {
		copied := *o
		copied.Games = append([]string(nil), o.Games...)
		snap.organizations[id] = &copied
	}
	for id, c := range s.championships {
		copied := *c
		copied.Results = append([]models.PlacementResult(nil), c.Results...)
		snap.championships[id] = &copied
	}
	for id, rs := range s.results {
		snap.results[id] = append([]models.PlacementResult(nil), rs...)
	}
	for userID, set := range s.participations {
		copied := make(map[int]bool, len(set))
		for k, v := range set {
			copied[k] = v
		}
		snap.participations[userID] = copied
	}
	for id, m := range s.missions {
		copied := *m
		snap.missions[id] = &copied
	}
	for userID, set := range s.missionsDone {
		copied := make(map[int]bool, len(set))
		for k, v := range set {
			copied[k] = v
		}
		snap.missionsDone[userID] = copied
	}
	for slug, r := range s.raffles {
		copied := *r
		snap.raffles[slug] = &copied
	}
	snap.tickets = append([]models.RaffleTicket(nil), s.tickets...)
	snap.contributions = append([]models.Contribution(nil), s.contributions...)
	snap.donations = append([]models.Donation(nil), s.donations...)
	return snap
}

func (s *fakeStore) restore(snap *fakeStore) {
	s.users = snap.users
	s.organizations = snap.organizations
	s.championships = snap.championships
	s.results = snap.results
	s.participations = snap.participations
	s.missions = snap.missions
	s.missionsDone = snap.missionsDone
	s.raffles = snap.raffles
	s.tickets = snap.tickets
	s.contributions = snap.contributions
	s.donations = snap.donations
	s.nextID = snap.nextID
}

// fakeTxRunner сериализует транзакции мьютексом и откатывает состояние при
// ошибке функции: коммит либо происходит целиком, либо не происходит вовсе.
type fakeTxRunner struct {
	store *fakeStore
	mu    sync.Mutex

	// failWith, если задана, возвращается вместо выполнения функции.
	failWith error
}

func (r *fakeTxRunner) RunInTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.failWith != nil {
		return r.failWith
	}

	snap := r.store.snapshot()
	if err := fn(nil); err != nil {
		r.store.restore(snap)
		return err
	}
	return nil
}

type fakeUserRepo struct {
	store *fakeStore
}

func (f *fakeUserRepo) Create(ctx context.Context, exec repositories.SQLExecutor, user *models.User) error {
	for _, existing := range f.store.users {
		if existing.Email == user.Email {
			return repositories.ErrUserEmailConflict
		}
	}
	user.ID = f.store.newID()
	copied := *user
	f.store.users[user.ID] = &copied
	return nil
}

func (f *fakeUserRepo) GetByID(ctx context.Context, exec repositories.SQLExecutor, id int) (*models.User, error) {
	u, ok := f.store.users[id]
	if !ok {
		return nil, repositories.ErrUserNotFound
	}
	copied := *u
	return &copied, nil
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	for _, u := range f.store.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, repositories.ErrUserNotFound
}

func (f *fakeUserRepo) List(ctx context.Context, filter repositories.ListUsersFilter) ([]models.User, error) {
	var users []models.User
	for _, u := range f.store.users {
		if filter.Role != nil && u.Role != *filter.Role {
			continue
		}
		users = append(users, *u)
	}
	return users, nil
}

func (f *fakeUserRepo) ListRanking(ctx context.Context, role models.UserRole, minXP float64, limit int) ([]models.User, error) {
	var users []models.User
	for _, u := range f.store.users {
		if u.Role == role && u.XPTotal >= minXP {
			users = append(users, *u)
		}
	}
	if len(users) > limit {
		users = users[:limit]
	}
	return users, nil
}

func (f *fakeUserRepo) UpdateProfile(ctx context.Context, id int, profileImageURL string, teamName *string) error {
	u, ok := f.store.users[id]
	if !ok {
		return repositories.ErrUserNotFound
	}
	u.ProfileImageURL = profileImageURL
	if teamName != nil {
		u.TeamName = *teamName
	}
	return nil
}

func (f *fakeUserRepo) SetOrganization(ctx context.Context, exec repositories.SQLExecutor, userID, organizationID int) error {
	u, ok := f.store.users[userID]
	if !ok {
		return repositories.ErrUserNotFound
	}
	u.OrganizationID = &organizationID
	return nil
}

func (f *fakeUserRepo) GetNamesByIDs(ctx context.Context, exec repositories.SQLExecutor, ids []int) (map[int]string, error) {
	names := make(map[int]string, len(ids))
	for _, id := range ids {
		if u, ok := f.store.users[id]; ok {
			names[id] = u.Name
		}
	}
	return names, nil
}

// AddXP игнорирует неизвестные id так же, как UPDATE с нулем затронутых строк.
func (f *fakeUserRepo) AddXP(ctx context.Context, exec repositories.SQLExecutor, userID int, xp float64) error {
	if u, ok := f.store.users[userID]; ok {
		u.XPTotal += xp
	}
	return nil
}

func (f *fakeUserRepo) AddChampionshipParticipation(ctx context.Context, exec repositories.SQLExecutor, userID, championshipID int) error {
	set, ok := f.store.participations[userID]
	if !ok {
		set = make(map[int]bool)
		f.store.participations[userID] = set
	}
	set[championshipID] = true
	return nil
}

func (f *fakeUserRepo) HasCompletedMission(ctx context.Context, exec repositories.SQLExecutor, userID, missionID int) (bool, error) {
	return f.store.missionsDone[userID][missionID], nil
}

func (f *fakeUserRepo) AddCompletedMission(ctx context.Context, exec repositories.SQLExecutor, userID, missionID int) error {
	set, ok := f.store.missionsDone[userID]
	if !ok {
		set = make(map[int]bool)
		f.store.missionsDone[userID] = set
	}
	set[missionID] = true
	return nil
}

func (f *fakeUserRepo) ResetAllXP(ctx context.Context) (int64, error) {
	var affected int64
	for _, u := range f.store.users {
		u.XPTotal = 0
		affected++
	}
	return affected, nil
}

type fakeChampionshipRepo struct {
	store *fakeStore
}

func (f *fakeChampionshipRepo) Create(ctx context.Context, exec repositories.SQLExecutor, c *models.Championship) error {
	c.ID = f.store.newID()
	copied := *c
	f.store.championships[c.ID] = &copied
	return nil
}

func (f *fakeChampionshipRepo) GetByID(ctx context.Context, exec repositories.SQLExecutor, id int) (*models.Championship, error) {
	c, ok := f.store.championships[id]
	if !ok {
		return nil, repositories.ErrChampionshipNotFound
	}
	copied := *c
	return &copied, nil
}

func (f *fakeChampionshipRepo) List(ctx context.Context, filter repositories.ListChampionshipsFilter) ([]models.Championship, error) {
	var champs []models.Championship
	for _, c := range f.store.championships {
		if filter.OrganizerID != nil && c.OrganizerID != *filter.OrganizerID {
			continue
		}
		champs = append(champs, *c)
	}
	return champs, nil
}

func (f *fakeChampionshipRepo) MarkFinalized(ctx context.Context, exec repositories.SQLExecutor, id int) error {
	c, ok := f.store.championships[id]
	if !ok {
		return repositories.ErrChampionshipNotFound
	}
	c.Status = models.ChampionshipFinalized
	return nil
}

func (f *fakeChampionshipRepo) InsertResults(ctx context.Context, exec repositories.SQLExecutor, championshipID int, results []models.PlacementResult) error {
	for _, r := range results {
		r.ChampionshipID = championshipID
		r.ID = f.store.newID()
		f.store.results[championshipID] = append(f.store.results[championshipID], r)
	}
	return nil
}

func (f *fakeChampionshipRepo) ListResults(ctx context.Context, championshipID int) ([]models.PlacementResult, error) {
	return append([]models.PlacementResult(nil), f.store.results[championshipID]...), nil
}

type fakeRaffleRepo struct {
	store *fakeStore
}

func (f *fakeRaffleRepo) GetBySlug(ctx context.Context, exec repositories.SQLExecutor, slug string) (*models.Raffle, error) {
	r, ok := f.store.raffles[slug]
	if !ok {
		return nil, repositories.ErrRaffleNotFound
	}
	copied := *r
	return &copied, nil
}

func (f *fakeRaffleRepo) ListTickets(ctx context.Context, exec repositories.SQLExecutor, raffleID int) ([]models.RaffleTicket, error) {
	var tickets []models.RaffleTicket
	for _, t := range f.store.tickets {
		if t.RaffleID == raffleID {
			tickets = append(tickets, t)
		}
	}
	return tickets, nil
}

func (f *fakeRaffleRepo) MaxTicketNumber(ctx context.Context, exec repositories.SQLExecutor, raffleID int) (int, error) {
	max := 0
	for _, t := range f.store.tickets {
		if t.RaffleID == raffleID && t.Number > max {
			max = t.Number
		}
	}
	return max, nil
}

func (f *fakeRaffleRepo) InsertTicket(ctx context.Context, exec repositories.SQLExecutor, ticket *models.RaffleTicket) error {
	ticket.ID = f.store.newID()
	f.store.tickets = append(f.store.tickets, *ticket)
	return nil
}

func (f *fakeRaffleRepo) ClearTickets(ctx context.Context, raffleID int) error {
	kept := f.store.tickets[:0]
	for _, t := range f.store.tickets {
		if t.RaffleID != raffleID {
			kept = append(kept, t)
		}
	}
	f.store.tickets = kept
	return nil
}

type fakeMissionRepo struct {
	store *fakeStore
}

func (f *fakeMissionRepo) GetByID(ctx context.Context, exec repositories.SQLExecutor, id int) (*models.Mission, error) {
	m, ok := f.store.missions[id]
	if !ok {
		return nil, repositories.ErrMissionNotFound
	}
	copied := *m
	return &copied, nil
}

func (f *fakeMissionRepo) List(ctx context.Context) ([]models.Mission, error) {
	var missions []models.Mission
	for _, m := range f.store.missions {
		missions = append(missions, *m)
	}
	return missions, nil
}

type fakeOrganizationRepo struct {
	store *fakeStore
}

func (f *fakeOrganizationRepo) Create(ctx context.Context, exec repositories.SQLExecutor, org *models.Organization) error {
	org.ID = f.store.newID()
	copied := *org
	f.store.organizations[org.ID] = &copied
	return nil
}

func (f *fakeOrganizationRepo) GetByID(ctx context.Context, exec repositories.SQLExecutor, id int) (*models.Organization, error) {
	o, ok := f.store.organizations[id]
	if !ok {
		return nil, repositories.ErrOrganizationNotFound
	}
	copied := *o
	copied.Games = append([]string(nil), o.Games...)
	return &copied, nil
}

func (f *fakeOrganizationRepo) List(ctx context.Context) ([]models.Organization, error) {
	var orgs []models.Organization
	for _, o := range f.store.organizations {
		orgs = append(orgs, *o)
	}
	return orgs, nil
}

func (f *fakeOrganizationRepo) Update(ctx context.Context, org *models.Organization) error {
	existing, ok := f.store.organizations[org.ID]
	if !ok {
		return repositories.ErrOrganizationNotFound
	}
	*existing = *org
	return nil
}

func (f *fakeOrganizationRepo) UpdateImageURL(ctx context.Context, id int, imageURL string) error {
	o, ok := f.store.organizations[id]
	if !ok {
		return repositories.ErrOrganizationNotFound
	}
	o.ImageURL = imageURL
	return nil
}

func (f *fakeOrganizationRepo) AddGame(ctx context.Context, exec repositories.SQLExecutor, id int, game string) error {
	o, ok := f.store.organizations[id]
	if !ok {
		return repositories.ErrOrganizationNotFound
	}
	for _, g := range o.Games {
		if g == game {
			return nil
		}
	}
	o.Games = append(o.Games, game)
	return nil
}

type fakeContributionRepo struct {
	store *fakeStore
}

func (f *fakeContributionRepo) Create(ctx context.Context, exec repositories.SQLExecutor, c *models.Contribution) error {
	c.ID = f.store.newID()
	f.store.contributions = append(f.store.contributions, *c)
	return nil
}

func (f *fakeContributionRepo) TotalAmount(ctx context.Context) (float64, error) {
	var total float64
	for _, c := range f.store.contributions {
		total += c.Amount
	}
	return total, nil
}

type fakeDonationRepo struct {
	store *fakeStore
}

func (f *fakeDonationRepo) Create(ctx context.Context, exec repositories.SQLExecutor, d *models.Donation) error {
	d.ID = f.store.newID()
	f.store.donations = append(f.store.donations, *d)
	return nil
}

type fakeRankingConfigRepo struct {
	cfg models.RankingConfig
}

func (f *fakeRankingConfigRepo) Get(ctx context.Context) (*models.RankingConfig, error) {
	copied := f.cfg
	return &copied, nil
}

func (f *fakeRankingConfigRepo) Upsert(ctx context.Context, cfg *models.RankingConfig) error {
	f.cfg = *cfg
	return nil
}
