package service

import (
	"context"
	"encoding/json"
	"time"

	"gorm.io/gorm"

	"github.com/adhamhusein/mio-super-app/internal/model"
	"github.com/adhamhusein/mio-super-app/internal/repository"
)

// unmarshalJSON decodes a request literal the way Gin binding would.
func unmarshalJSON(s string, dest interface{}) error {
	return json.Unmarshal([]byte(s), dest)
}

// ── mock trip repository ──

// tripCall records one store invocation for assertion.
type tripCall struct {
	method string
	args   []interface{}
}

type mockTripRepo struct {
	// canned results, keyed by shift code for the retrieval methods
	rowsByShift map[string][]model.RawRow
	latestID    string

	validationCols map[string][]string
	validationRows map[string][]map[string]interface{}
	historyRows    []map[string]interface{}

	// injected failures
	fetchErr  error
	insertErr error
	execErr   error

	calls []tripCall
}

func newMockTripRepo() *mockTripRepo {
	return &mockTripRepo{
		rowsByShift:    map[string][]model.RawRow{},
		validationCols: map[string][]string{},
		validationRows: map[string][]map[string]interface{}{},
	}
}

func (m *mockTripRepo) record(method string, args ...interface{}) {
	m.calls = append(m.calls, tripCall{method: method, args: args})
}

// callsTo counts recorded invocations of one method.
func (m *mockTripRepo) callsTo(method string) int {
	n := 0
	for _, c := range m.calls {
		if c.method == method {
			n++
		}
	}
	return n
}

func (m *mockTripRepo) lastCall() *tripCall {
	if len(m.calls) == 0 {
		return nil
	}
	return &m.calls[len(m.calls)-1]
}

func (m *mockTripRepo) TripsByUnit(ctx context.Context, date, shift, equipment string) ([]model.RawRow, error) {
	m.record("TripsByUnit", date, shift, equipment)
	if m.fetchErr != nil {
		return nil, m.fetchErr
	}
	return m.rowsByShift[shift], nil
}

func (m *mockTripRepo) TripsByUnitNRP(ctx context.Context, date, shift, equipment, operator string) ([]model.RawRow, error) {
	m.record("TripsByUnitNRP", date, shift, equipment, operator)
	if m.fetchErr != nil {
		return nil, m.fetchErr
	}
	return m.rowsByShift[shift], nil
}

func (m *mockTripRepo) Insert(ctx context.Context, p repository.InsertTripParams) error {
	m.record("Insert", p)
	return m.insertErr
}

func (m *mockTripRepo) LatestIDByKey(ctx context.Context, reportTime time.Time, equipment, operator string) (string, error) {
	m.record("LatestIDByKey", reportTime, equipment, operator)
	if m.fetchErr != nil {
		return "", m.fetchErr
	}
	return m.latestID, nil
}

func (m *mockTripRepo) Delete(ctx context.Context, id string) error {
	m.record("Delete", id)
	return m.execErr
}

func (m *mockTripRepo) Restore(ctx context.Context, id string) error {
	m.record("Restore", id)
	return m.execErr
}

func (m *mockTripRepo) Modify(ctx context.Context, p repository.ModifyTripParams) error {
	m.record("Modify", p)
	return m.execErr
}

func (m *mockTripRepo) UpdateShift(ctx context.Context, p repository.UpdateShiftParams) error {
	m.record("UpdateShift", p)
	return m.execErr
}

func (m *mockTripRepo) InsertLoginUpdate(ctx context.Context, p repository.LoginUpdateParams) error {
	m.record("InsertLoginUpdate", p)
	return m.execErr
}

func (m *mockTripRepo) RealtimeValidation(ctx context.Context, date, shift, equipment string) ([]string, []map[string]interface{}, error) {
	m.record("RealtimeValidation", date, shift, equipment)
	if m.fetchErr != nil {
		return nil, nil, m.fetchErr
	}
	return m.validationCols[shift], m.validationRows[shift], nil
}

func (m *mockTripRepo) HistoricalLogin(ctx context.Context, mobileID string) ([]map[string]interface{}, error) {
	m.record("HistoricalLogin", mobileID)
	if m.fetchErr != nil {
		return nil, m.fetchErr
	}
	return m.historyRows, nil
}

// ── mock user repository ──

type mockUserRepo struct {
	users  map[string]*model.User // keyed by username
	nextID int
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: map[string]*model.User{}, nextID: 1}
}

func (m *mockUserRepo) Create(ctx context.Context, user *model.User) error {
	user.ID = m.nextID
	m.nextID++
	m.users[user.Username] = user
	return nil
}

func (m *mockUserRepo) GetByID(ctx context.Context, id int) (*model.User, error) {
	for _, u := range m.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	if u, ok := m.users[username]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

// ── in-memory session store ──

// memSessions mirrors the Redis store's JSON round-trip so serialization
// defects show up in tests too.
type memSessions struct {
	data map[string][]byte
	err  error
}

func newMemSessions() *memSessions {
	return &memSessions{data: map[string][]byte{}}
}

func (m *memSessions) SetSession(ctx context.Context, userID, key string, value interface{}) error {
	if m.err != nil {
		return m.err
	}
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.data[userID+"/"+key] = b
	return nil
}

func (m *memSessions) GetSession(ctx context.Context, userID, key string, dest interface{}) (bool, error) {
	if m.err != nil {
		return false, m.err
	}
	b, ok := m.data[userID+"/"+key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(b, dest)
}

func (m *memSessions) ClearSession(ctx context.Context, userID string, keys ...string) error {
	if m.err != nil {
		return m.err
	}
	for _, key := range keys {
		delete(m.data, userID+"/"+key)
	}
	return nil
}

// ── mock token blacklist ──

type mockBlacklist struct {
	revoked map[string]time.Duration
	err     error
}

func newMockBlacklist() *mockBlacklist {
	return &mockBlacklist{revoked: map[string]time.Duration{}}
}

func (m *mockBlacklist) BlacklistToken(ctx context.Context, jti string, ttl time.Duration) error {
	if m.err != nil {
		return m.err
	}
	m.revoked[jti] = ttl
	return nil
}
