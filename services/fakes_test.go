package services

import (
	"context"
	"sort"
	"time"

	"github.com/sportarena/khokho-backend/models"
	"github.com/sportarena/khokho-backend/repositories"
)

// The fakes below back the service tests with in-memory state. The
// pass-through transaction runner hands the services a nil executor, which
// every fake ignores.

type fakeTxRunner struct{}

func (fakeTxRunner) RunInTx(ctx context.Context, fn func(exec repositories.SQLExecutor) error) error {
	return fn(nil)
}

type fakeBroadcaster struct {
	messages []interface{}
}

func (b *fakeBroadcaster) BroadcastToMatch(matchID int, payload interface{}) {
	b.messages = append(b.messages, payload)
}

type fakeUserRepo struct {
	users  map[int]*models.User
	nextID int
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[int]*models.User), nextID: 1}
}

func (r *fakeUserRepo) Create(ctx context.Context, user *models.User) error {
	for _, u := range r.users {
		if u.Email == user.Email {
			return repositories.ErrUserEmailConflict
		}
	}
	user.ID = r.nextID
	r.nextID++
	copied := *user
	r.users[user.ID] = &copied
	return nil
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id int) (*models.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, repositories.ErrUserNotFound
	}
	copied := *user
	return &copied, nil
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	for _, user := range r.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, repositories.ErrUserNotFound
}

func (r *fakeUserRepo) List(ctx context.Context, role *models.UserRole) ([]*models.User, error) {
	users := make([]*models.User, 0)
	for _, user := range r.users {
		if role == nil || user.Role == *role {
			copied := *user
			users = append(users, &copied)
		}
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users, nil
}

type fakeTournamentRepo struct {
	tournaments map[int]*models.Tournament
	nextID      int
}

func newFakeTournamentRepo() *fakeTournamentRepo {
	return &fakeTournamentRepo{tournaments: make(map[int]*models.Tournament), nextID: 1}
}

func (r *fakeTournamentRepo) add(t *models.Tournament) *models.Tournament {
	if t.ID == 0 {
		t.ID = r.nextID
		r.nextID++
	}
	r.tournaments[t.ID] = t
	return t
}

func (r *fakeTournamentRepo) Create(ctx context.Context, t *models.Tournament) error {
	for _, existing := range r.tournaments {
		if existing.Name == t.Name {
			return repositories.ErrTournamentNameConflict
		}
	}
	r.add(t)
	return nil
}

func (r *fakeTournamentRepo) GetByID(ctx context.Context, id int) (*models.Tournament, error) {
	t, ok := r.tournaments[id]
	if !ok {
		return nil, repositories.ErrTournamentNotFound
	}
	copied := *t
	return &copied, nil
}

func (r *fakeTournamentRepo) List(ctx context.Context, status *models.TournamentStatus) ([]*models.Tournament, error) {
	list := make([]*models.Tournament, 0)
	for _, t := range r.tournaments {
		if status == nil || t.Status == *status {
			copied := *t
			list = append(list, &copied)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list, nil
}

func (r *fakeTournamentRepo) Update(ctx context.Context, t *models.Tournament) error {
	if _, ok := r.tournaments[t.ID]; !ok {
		return repositories.ErrTournamentNotFound
	}
	copied := *t
	r.tournaments[t.ID] = &copied
	return nil
}

func (r *fakeTournamentRepo) UpdateStatus(ctx context.Context, id int, status models.TournamentStatus) error {
	t, ok := r.tournaments[id]
	if !ok {
		return repositories.ErrTournamentNotFound
	}
	t.Status = status
	return nil
}

func (r *fakeTournamentRepo) Delete(ctx context.Context, id int) error {
	if _, ok := r.tournaments[id]; !ok {
		return repositories.ErrTournamentNotFound
	}
	delete(r.tournaments, id)
	return nil
}

func (r *fakeTournamentRepo) ListWithStatusNotMatchingDates(ctx context.Context, today time.Time) ([]*models.Tournament, error) {
	stale := make([]*models.Tournament, 0)
	for _, t := range r.tournaments {
		if t.IsActive && t.Status != t.StatusForDate(today) {
			copied := *t
			stale = append(stale, &copied)
		}
	}
	sort.Slice(stale, func(i, j int) bool { return stale[i].ID < stale[j].ID })
	return stale, nil
}

type fakeTeamRepo struct {
	teams  map[int]*models.Team
	nextID int
}

func newFakeTeamRepo() *fakeTeamRepo {
	return &fakeTeamRepo{teams: make(map[int]*models.Team), nextID: 1}
}

func (r *fakeTeamRepo) add(t *models.Team) *models.Team {
	if t.ID == 0 {
		t.ID = r.nextID
		r.nextID++
	}
	r.teams[t.ID] = t
	return t
}

func (r *fakeTeamRepo) Create(ctx context.Context, team *models.Team) error {
	r.add(team)
	return nil
}

func (r *fakeTeamRepo) GetByID(ctx context.Context, id int) (*models.Team, error) {
	team, ok := r.teams[id]
	if !ok {
		return nil, repositories.ErrTeamNotFound
	}
	copied := *team
	return &copied, nil
}

func (r *fakeTeamRepo) ListByTournament(ctx context.Context, tournamentID int) ([]*models.Team, error) {
	teams := make([]*models.Team, 0)
	for _, team := range r.teams {
		if team.TournamentID == tournamentID {
			copied := *team
			teams = append(teams, &copied)
		}
	}
	sort.Slice(teams, func(i, j int) bool {
		if teams[i].Name != teams[j].Name {
			return teams[i].Name < teams[j].Name
		}
		return teams[i].ID < teams[j].ID
	})
	return teams, nil
}

func (r *fakeTeamRepo) CountByTournament(ctx context.Context, tournamentID int) (int, error) {
	count := 0
	for _, team := range r.teams {
		if team.TournamentID == tournamentID {
			count++
		}
	}
	return count, nil
}

func (r *fakeTeamRepo) Update(ctx context.Context, team *models.Team) error {
	if _, ok := r.teams[team.ID]; !ok {
		return repositories.ErrTeamNotFound
	}
	copied := *team
	r.teams[team.ID] = &copied
	return nil
}

func (r *fakeTeamRepo) UpdateStats(ctx context.Context, exec repositories.SQLExecutor, teamID int, stats models.TeamStats) error {
	team, ok := r.teams[teamID]
	if !ok {
		return repositories.ErrTeamNotFound
	}
	team.Stats = stats
	return nil
}

func (r *fakeTeamRepo) UpdateLogoKey(ctx context.Context, teamID int, logoKey *string) error {
	team, ok := r.teams[teamID]
	if !ok {
		return repositories.ErrTeamNotFound
	}
	team.LogoKey = logoKey
	return nil
}

func (r *fakeTeamRepo) Delete(ctx context.Context, id int) error {
	if _, ok := r.teams[id]; !ok {
		return repositories.ErrTeamNotFound
	}
	delete(r.teams, id)
	return nil
}

type fakePlayerRepo struct {
	players map[int]*models.Player
	nextID  int
}

func newFakePlayerRepo() *fakePlayerRepo {
	return &fakePlayerRepo{players: make(map[int]*models.Player), nextID: 1}
}

func (r *fakePlayerRepo) add(p *models.Player) *models.Player {
	if p.ID == 0 {
		p.ID = r.nextID
		r.nextID++
	}
	r.players[p.ID] = p
	return p
}

func (r *fakePlayerRepo) Create(ctx context.Context, player *models.Player) error {
	for _, existing := range r.players {
		if existing.TeamID == player.TeamID && existing.JerseyNumber == player.JerseyNumber {
			return repositories.ErrPlayerJerseyConflict
		}
	}
	r.add(player)
	return nil
}

func (r *fakePlayerRepo) GetByID(ctx context.Context, id int) (*models.Player, error) {
	player, ok := r.players[id]
	if !ok {
		return nil, repositories.ErrPlayerNotFound
	}
	copied := *player
	return &copied, nil
}

func (r *fakePlayerRepo) ListByTeam(ctx context.Context, teamID int) ([]*models.Player, error) {
	players := make([]*models.Player, 0)
	for _, player := range r.players {
		if player.TeamID == teamID {
			copied := *player
			players = append(players, &copied)
		}
	}
	sort.Slice(players, func(i, j int) bool { return players[i].JerseyNumber < players[j].JerseyNumber })
	return players, nil
}

func (r *fakePlayerRepo) CountByTeam(ctx context.Context, teamID int, activeOnly bool) (int, error) {
	count := 0
	for _, player := range r.players {
		if player.TeamID == teamID && (!activeOnly || player.IsActive) {
			count++
		}
	}
	return count, nil
}

func (r *fakePlayerRepo) Update(ctx context.Context, player *models.Player) error {
	if _, ok := r.players[player.ID]; !ok {
		return repositories.ErrPlayerNotFound
	}
	copied := *player
	r.players[player.ID] = &copied
	return nil
}

func (r *fakePlayerRepo) Delete(ctx context.Context, id int) error {
	if _, ok := r.players[id]; !ok {
		return repositories.ErrPlayerNotFound
	}
	delete(r.players, id)
	return nil
}

type fakeMatchRepo struct {
	matches map[int]*models.Match
	nextID  int
}

func newFakeMatchRepo() *fakeMatchRepo {
	return &fakeMatchRepo{matches: make(map[int]*models.Match), nextID: 1}
}

func (r *fakeMatchRepo) add(m *models.Match) *models.Match {
	if m.ID == 0 {
		m.ID = r.nextID
		r.nextID++
	}
	r.matches[m.ID] = m
	return m
}

func (r *fakeMatchRepo) Create(ctx context.Context, exec repositories.SQLExecutor, match *models.Match) error {
	for _, existing := range r.matches {
		if existing.TournamentID == match.TournamentID && existing.MatchNumber == match.MatchNumber {
			return repositories.ErrMatchNumberConflict
		}
	}
	r.add(match)
	return nil
}

func (r *fakeMatchRepo) GetByID(ctx context.Context, id int) (*models.Match, error) {
	match, ok := r.matches[id]
	if !ok {
		return nil, repositories.ErrMatchNotFound
	}
	copied := *match
	return &copied, nil
}

func (r *fakeMatchRepo) GetByIDForUpdate(ctx context.Context, exec repositories.SQLExecutor, id int) (*models.Match, error) {
	return r.GetByID(ctx, id)
}

func (r *fakeMatchRepo) ListByTournament(ctx context.Context, tournamentID int, status *models.MatchStatus) ([]*models.Match, error) {
	matches := make([]*models.Match, 0)
	for _, match := range r.matches {
		if match.TournamentID != tournamentID {
			continue
		}
		if status != nil && match.Status != *status {
			continue
		}
		copied := *match
		matches = append(matches, &copied)
	}
	sort.Slice(matches, func(i, j int) bool { return matches[i].MatchNumber < matches[j].MatchNumber })
	return matches, nil
}

func (r *fakeMatchRepo) ListByTeam(ctx context.Context, exec repositories.SQLExecutor, teamID int) ([]*models.Match, error) {
	matches := make([]*models.Match, 0)
	for _, match := range r.matches {
		if match.HasTeam(teamID) {
			copied := *match
			matches = append(matches, &copied)
		}
	}
	sort.Slice(matches, func(i, j int) bool { return matches[i].MatchNumber < matches[j].MatchNumber })
	return matches, nil
}

func (r *fakeMatchRepo) NextMatchNumber(ctx context.Context, exec repositories.SQLExecutor, tournamentID int) (int, error) {
	max := 0
	for _, match := range r.matches {
		if match.TournamentID == tournamentID && match.MatchNumber > max {
			max = match.MatchNumber
		}
	}
	return max + 1, nil
}

func (r *fakeMatchRepo) ExistsByTournament(ctx context.Context, tournamentID int) (bool, error) {
	for _, match := range r.matches {
		if match.TournamentID == tournamentID {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeMatchRepo) ExistsForTeamsAt(ctx context.Context, exec repositories.SQLExecutor, teamAID, teamBID int, at time.Time) (bool, error) {
	for _, match := range r.matches {
		sameTeams := (match.TeamAID == teamAID && match.TeamBID == teamBID) ||
			(match.TeamAID == teamBID && match.TeamBID == teamAID)
		if sameTeams && match.MatchDate.Equal(at) {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeMatchRepo) UpdateStatus(ctx context.Context, exec repositories.SQLExecutor, id int, status models.MatchStatus, startedAt, endedAt *time.Time) error {
	match, ok := r.matches[id]
	if !ok {
		return repositories.ErrMatchNotFound
	}
	match.Status = status
	if startedAt != nil {
		match.StartedAt = startedAt
	}
	if endedAt != nil {
		match.EndedAt = endedAt
	}
	return nil
}

func (r *fakeMatchRepo) Delete(ctx context.Context, id int) error {
	if _, ok := r.matches[id]; !ok {
		return repositories.ErrMatchNotFound
	}
	delete(r.matches, id)
	return nil
}

type fakeOfficialRepo struct {
	officials []*models.MatchOfficial
	staff     []*models.MatchStaff
	matches   *fakeMatchRepo
	nextID    int
}

func newFakeOfficialRepo(matches *fakeMatchRepo) *fakeOfficialRepo {
	return &fakeOfficialRepo{matches: matches, nextID: 1}
}

func (r *fakeOfficialRepo) Create(ctx context.Context, exec repositories.SQLExecutor, official *models.MatchOfficial) error {
	for _, existing := range r.officials {
		if existing.MatchID == official.MatchID && existing.UserID == official.UserID && existing.Role == official.Role {
			return repositories.ErrOfficialAlreadyAssigned
		}
	}
	official.ID = r.nextID
	r.nextID++
	copied := *official
	r.officials = append(r.officials, &copied)
	return nil
}

func (r *fakeOfficialRepo) ListByMatch(ctx context.Context, matchID int) ([]*models.MatchOfficial, error) {
	list := make([]*models.MatchOfficial, 0)
	for _, official := range r.officials {
		if official.MatchID == matchID {
			copied := *official
			list = append(list, &copied)
		}
	}
	return list, nil
}

func (r *fakeOfficialRepo) CountByMatchAndRole(ctx context.Context, exec repositories.SQLExecutor, matchID int, role models.OfficialRole) (int, error) {
	count := 0
	for _, official := range r.officials {
		if official.MatchID == matchID && official.Role == role {
			count++
		}
	}
	return count, nil
}

func (r *fakeOfficialRepo) ExistsByMatchAndUser(ctx context.Context, exec repositories.SQLExecutor, matchID, userID int) (bool, error) {
	for _, official := range r.officials {
		if official.MatchID == matchID && official.UserID == userID {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeOfficialRepo) ExistsWithRole(ctx context.Context, matchID, userID int, roles ...models.OfficialRole) (bool, error) {
	for _, official := range r.officials {
		if official.MatchID != matchID || official.UserID != userID {
			continue
		}
		for _, role := range roles {
			if official.Role == role {
				return true, nil
			}
		}
	}
	return false, nil
}

func (r *fakeOfficialRepo) HasTimeClash(ctx context.Context, exec repositories.SQLExecutor, userID, excludeMatchID int, at time.Time) (bool, error) {
	for _, official := range r.officials {
		if official.UserID != userID || official.MatchID == excludeMatchID {
			continue
		}
		match, ok := r.matches.matches[official.MatchID]
		if ok && match.MatchDate.Equal(at) {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeOfficialRepo) Delete(ctx context.Context, id int) error {
	for i, official := range r.officials {
		if official.ID == id {
			r.officials = append(r.officials[:i], r.officials[i+1:]...)
			return nil
		}
	}
	return repositories.ErrOfficialNotFound
}

func (r *fakeOfficialRepo) CreateStaff(ctx context.Context, staff *models.MatchStaff) error {
	for _, existing := range r.staff {
		if existing.MatchID == staff.MatchID && existing.UserID == staff.UserID && existing.Role == staff.Role {
			return repositories.ErrStaffAlreadyAssigned
		}
	}
	staff.ID = r.nextID
	r.nextID++
	copied := *staff
	r.staff = append(r.staff, &copied)
	return nil
}

func (r *fakeOfficialRepo) ListStaffByMatch(ctx context.Context, matchID int) ([]*models.MatchStaff, error) {
	list := make([]*models.MatchStaff, 0)
	for _, staff := range r.staff {
		if staff.MatchID == matchID {
			copied := *staff
			list = append(list, &copied)
		}
	}
	return list, nil
}

type fakeMatchPlayerRepo struct {
	matchPlayers []*models.MatchPlayer
	players      *fakePlayerRepo
	nextID       int
}

func newFakeMatchPlayerRepo(players *fakePlayerRepo) *fakeMatchPlayerRepo {
	return &fakeMatchPlayerRepo{players: players, nextID: 1}
}

func (r *fakeMatchPlayerRepo) Create(ctx context.Context, exec repositories.SQLExecutor, mp *models.MatchPlayer) error {
	for _, existing := range r.matchPlayers {
		if existing.MatchID == mp.MatchID && existing.PlayerID == mp.PlayerID {
			return repositories.ErrMatchPlayerAlreadyAssigned
		}
	}
	mp.ID = r.nextID
	r.nextID++
	copied := *mp
	r.matchPlayers = append(r.matchPlayers, &copied)
	return nil
}

func (r *fakeMatchPlayerRepo) ListByMatch(ctx context.Context, matchID int) ([]*models.MatchPlayer, error) {
	list := make([]*models.MatchPlayer, 0)
	for _, mp := range r.matchPlayers {
		if mp.MatchID == matchID {
			copied := *mp
			list = append(list, &copied)
		}
	}
	return list, nil
}

func (r *fakeMatchPlayerRepo) CountPlayingByTeam(ctx context.Context, exec repositories.SQLExecutor, matchID, teamID int) (int, error) {
	count := 0
	for _, mp := range r.matchPlayers {
		if mp.MatchID != matchID || mp.Status != models.MatchPlayerPlaying {
			continue
		}
		player, ok := r.players.players[mp.PlayerID]
		if ok && player.TeamID == teamID {
			count++
		}
	}
	return count, nil
}

func (r *fakeMatchPlayerRepo) IsPlaying(ctx context.Context, exec repositories.SQLExecutor, matchID, playerID int) (bool, error) {
	for _, mp := range r.matchPlayers {
		if mp.MatchID == matchID && mp.PlayerID == playerID && mp.Status == models.MatchPlayerPlaying {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeMatchPlayerRepo) Delete(ctx context.Context, id int) error {
	for i, mp := range r.matchPlayers {
		if mp.ID == id {
			r.matchPlayers = append(r.matchPlayers[:i], r.matchPlayers[i+1:]...)
			return nil
		}
	}
	return repositories.ErrMatchPlayerNotFound
}

type fakeResultRepo struct {
	results []*models.MatchResult
	matches *fakeMatchRepo
	nextID  int
}

func newFakeResultRepo(matches *fakeMatchRepo) *fakeResultRepo {
	return &fakeResultRepo{matches: matches, nextID: 1}
}

func (r *fakeResultRepo) Create(ctx context.Context, exec repositories.SQLExecutor, result *models.MatchResult) error {
	for _, existing := range r.results {
		if existing.MatchID == result.MatchID {
			return repositories.ErrResultAlreadyExists
		}
	}
	result.ID = r.nextID
	r.nextID++
	copied := *result
	r.results = append(r.results, &copied)
	return nil
}

func (r *fakeResultRepo) GetByMatch(ctx context.Context, exec repositories.SQLExecutor, matchID int) (*models.MatchResult, error) {
	for _, result := range r.results {
		if result.MatchID == matchID {
			copied := *result
			return &copied, nil
		}
	}
	return nil, repositories.ErrResultNotFound
}

func (r *fakeResultRepo) ExistsByMatch(ctx context.Context, exec repositories.SQLExecutor, matchID int) (bool, error) {
	for _, result := range r.results {
		if result.MatchID == matchID {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeResultRepo) ListByTeam(ctx context.Context, exec repositories.SQLExecutor, teamID int) ([]*repositories.TeamResult, error) {
	list := make([]*repositories.TeamResult, 0)
	for _, result := range r.results {
		match, ok := r.matches.matches[result.MatchID]
		if !ok || !match.HasTeam(teamID) {
			continue
		}
		list = append(list, &repositories.TeamResult{
			Result:  *result,
			TeamAID: match.TeamAID,
			TeamBID: match.TeamBID,
		})
	}
	return list, nil
}

type fakeScoreRepo struct {
	events []*repositories.ScoreEventDetail
	audits []*models.ScoreAuditLog
	teams  *fakeTeamRepo
	nextID int
}

func newFakeScoreRepo(teams *fakeTeamRepo) *fakeScoreRepo {
	return &fakeScoreRepo{teams: teams, nextID: 1}
}

func (r *fakeScoreRepo) CreateEvent(ctx context.Context, exec repositories.SQLExecutor, event *models.ScoreEvent) error {
	event.ID = r.nextID
	r.nextID++
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}

	detail := &repositories.ScoreEventDetail{Event: *event}
	if team, ok := r.teams.teams[event.AttackingTeamID]; ok {
		detail.TeamName = team.Name
	}
	r.events = append(r.events, detail)
	return nil
}

func (r *fakeScoreRepo) CreateAuditLog(ctx context.Context, exec repositories.SQLExecutor, log *models.ScoreAuditLog) error {
	log.ID = len(r.audits) + 1
	copied := *log
	r.audits = append(r.audits, &copied)
	return nil
}

func (r *fakeScoreRepo) ListEventsByMatch(ctx context.Context, exec repositories.SQLExecutor, matchID int) ([]*repositories.ScoreEventDetail, error) {
	// Newest first, matching the SQL ordering.
	list := make([]*repositories.ScoreEventDetail, 0)
	for i := len(r.events) - 1; i >= 0; i-- {
		if r.events[i].Event.MatchID == matchID {
			copied := *r.events[i]
			list = append(list, &copied)
		}
	}
	return list, nil
}

func (r *fakeScoreRepo) ListAuditLogsByMatch(ctx context.Context, matchID int) ([]*models.ScoreAuditLog, error) {
	list := make([]*models.ScoreAuditLog, 0)
	for i := len(r.audits) - 1; i >= 0; i-- {
		if r.audits[i].MatchID == matchID {
			copied := *r.audits[i]
			list = append(list, &copied)
		}
	}
	return list, nil
}
