// Copyright 2026 The Citydesk Authors
// SPDX-License-Identifier: Apache-2.0

// Package testutil provides an in-memory stand-in for the civic issue
// backend. Tests point an api.Client at Backend.Server.URL and drive the
// same wire contract the real service speaks, including authentication,
// pagination, and the {"detail": ...} error envelope.
package testutil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/citydesk-project/citydesk/lib/civic"
)

// account pairs a registered identity with its password.
type account struct {
	identity civic.Identity
	password string
}

// Backend is a fake civic API server. It is safe for concurrent use;
// request counters let tests assert how many network calls a component
// issued.
type Backend struct {
	Server *httptest.Server

	mu       sync.Mutex
	accounts map[string]account
	tokens   map[string]civic.Identity
	records  []civic.Record
	updates  map[string][]civic.StatusUpdate
	nextID   int

	listCalls      int
	analyticsCalls int
	createCalls    int
	classifyCalls  int

	// Classify, when set, overrides the default canned classification
	// response.
	Classify func(complaint string) civic.Classification
}

// NewBackend starts a fake backend that shuts down with the test.
func NewBackend(t *testing.T) *Backend {
	t.Helper()
	backend := &Backend{
		accounts: make(map[string]account),
		tokens:   make(map[string]civic.Identity),
		updates:  make(map[string][]civic.StatusUpdate),
		nextID:   1,
	}
	backend.Server = httptest.NewServer(backend)
	t.Cleanup(backend.Server.Close)
	return backend
}

// AddAccount registers an account directly, bypassing the HTTP surface.
// Returns the identity for use in assertions.
func (backend *Backend) AddAccount(email, password, name string, role civic.Role) civic.Identity {
	backend.mu.Lock()
	defer backend.mu.Unlock()
	identity := civic.Identity{
		ID:          fmt.Sprintf("user-%d", len(backend.accounts)+1),
		DisplayName: name,
		Email:       email,
		Role:        role,
		CreatedAt:   time.Now().UTC(),
	}
	backend.accounts[email] = account{identity: identity, password: password}
	return identity
}

// IssueToken mints a credential for an already-registered email, as if
// the account had logged in.
func (backend *Backend) IssueToken(email string) string {
	backend.mu.Lock()
	defer backend.mu.Unlock()
	return backend.issueTokenLocked(email)
}

func (backend *Backend) issueTokenLocked(email string) string {
	token := fmt.Sprintf("token-%s-%d", email, len(backend.tokens)+1)
	backend.tokens[token] = backend.accounts[email].identity
	return token
}

// AddRecord seeds a record, filling in ID and timestamps.
func (backend *Backend) AddRecord(record civic.Record) civic.Record {
	backend.mu.Lock()
	defer backend.mu.Unlock()
	record.ID = fmt.Sprintf("rec-%d", backend.nextID)
	backend.nextID++
	if record.Status == "" {
		record.Status = civic.StatusPending
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now().UTC()
	}
	backend.records = append(backend.records, record)
	return record
}

// Records returns a copy of the current record set.
func (backend *Backend) Records() []civic.Record {
	backend.mu.Lock()
	defer backend.mu.Unlock()
	out := make([]civic.Record, len(backend.records))
	copy(out, backend.records)
	return out
}

// ListCalls reports how many GET /issues requests the backend served.
func (backend *Backend) ListCalls() int {
	backend.mu.Lock()
	defer backend.mu.Unlock()
	return backend.listCalls
}

// AnalyticsCalls reports how many GET /dashboard/analytics requests the
// backend served.
func (backend *Backend) AnalyticsCalls() int {
	backend.mu.Lock()
	defer backend.mu.Unlock()
	return backend.analyticsCalls
}

// CreateCalls reports how many POST /issues requests the backend served.
func (backend *Backend) CreateCalls() int {
	backend.mu.Lock()
	defer backend.mu.Unlock()
	return backend.createCalls
}

// ClassifyCalls reports how many POST /ml/predict requests the backend
// served.
func (backend *Backend) ClassifyCalls() int {
	backend.mu.Lock()
	defer backend.mu.Unlock()
	return backend.classifyCalls
}

func (backend *Backend) ServeHTTP(writer http.ResponseWriter, request *http.Request) {
	path := request.URL.Path
	switch {
	case path == "/auth/login" && request.Method == http.MethodPost:
		backend.handleLogin(writer, request)
	case path == "/auth/register" && request.Method == http.MethodPost:
		backend.handleRegister(writer, request)
	case path == "/issues" && request.Method == http.MethodGet:
		backend.handleList(writer, request)
	case path == "/issues" && request.Method == http.MethodPost:
		backend.handleCreate(writer, request)
	case strings.HasPrefix(path, "/issues/") && strings.HasSuffix(path, "/status") && request.Method == http.MethodPatch:
		backend.handleStatus(writer, request)
	case strings.HasPrefix(path, "/issues/") && strings.HasSuffix(path, "/updates") && request.Method == http.MethodGet:
		backend.handleUpdates(writer, request)
	case strings.HasPrefix(path, "/issues/") && request.Method == http.MethodDelete:
		backend.handleDelete(writer, request)
	case path == "/dashboard/analytics" && request.Method == http.MethodGet:
		backend.handleAnalytics(writer, request)
	case path == "/ml/predict" && request.Method == http.MethodPost:
		backend.handleClassify(writer, request)
	case path == "/ml/complaints" && request.Method == http.MethodGet:
		backend.handleComplaints(writer, request)
	default:
		fail(writer, http.StatusNotFound, "not found")
	}
}

// authenticate resolves the bearer token on a request. Returns false
// after writing a 401 when the token is missing or unknown.
func (backend *Backend) authenticate(writer http.ResponseWriter, request *http.Request) (civic.Identity, bool) {
	header := request.Header.Get("Authorization")
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok {
		fail(writer, http.StatusUnauthorized, "not authenticated")
		return civic.Identity{}, false
	}
	backend.mu.Lock()
	identity, ok := backend.tokens[token]
	backend.mu.Unlock()
	if !ok {
		fail(writer, http.StatusUnauthorized, "invalid token")
		return civic.Identity{}, false
	}
	return identity, true
}

func (backend *Backend) handleLogin(writer http.ResponseWriter, request *http.Request) {
	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(request.Body).Decode(&body); err != nil {
		fail(writer, http.StatusBadRequest, "malformed body")
		return
	}
	backend.mu.Lock()
	entry, ok := backend.accounts[body.Email]
	var token string
	if ok && entry.password == body.Password {
		token = backend.issueTokenLocked(body.Email)
	}
	backend.mu.Unlock()
	if token == "" {
		fail(writer, http.StatusUnauthorized, "invalid credentials")
		return
	}
	reply(writer, http.StatusOK, map[string]any{
		"access_token": token,
		"token_type":   "bearer",
		"user":         entry.identity,
	})
}

func (backend *Backend) handleRegister(writer http.ResponseWriter, request *http.Request) {
	var body struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
		Role     string `json:"role"`
	}
	if err := json.NewDecoder(request.Body).Decode(&body); err != nil {
		fail(writer, http.StatusBadRequest, "malformed body")
		return
	}
	backend.mu.Lock()
	_, exists := backend.accounts[body.Email]
	backend.mu.Unlock()
	if exists {
		fail(writer, http.StatusBadRequest, "email already registered")
		return
	}
	role, err := civic.ParseRole(body.Role)
	if err != nil {
		fail(writer, http.StatusUnprocessableEntity, "invalid role")
		return
	}
	identity := backend.AddAccount(body.Email, body.Password, body.Name, role)
	token := backend.IssueToken(body.Email)
	reply(writer, http.StatusOK, map[string]any{
		"access_token": token,
		"token_type":   "bearer",
		"user":         identity,
	})
}

func (backend *Backend) handleList(writer http.ResponseWriter, request *http.Request) {
	backend.mu.Lock()
	backend.listCalls++
	matched := make([]civic.Record, 0, len(backend.records))
	query := request.URL.Query()
	status := query.Get("status")
	category := query.Get("category")
	search := strings.ToLower(query.Get("search"))
	for _, record := range backend.records {
		if status != "" && string(record.Status) != status {
			continue
		}
		if category != "" && string(record.Category) != category {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(record.Title), search) &&
			!strings.Contains(strings.ToLower(record.Description), search) {
			continue
		}
		matched = append(matched, record)
	}
	backend.mu.Unlock()

	// Newest first, matching the real service's ordering.
	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	page := atoiDefault(query.Get("page"), 1)
	pageSize := atoiDefault(query.Get("page_size"), 6)
	start := (page - 1) * pageSize
	if start > len(matched) {
		start = len(matched)
	}
	end := start + pageSize
	if end > len(matched) {
		end = len(matched)
	}
	reply(writer, http.StatusOK, map[string]any{
		"items":     matched[start:end],
		"page":      page,
		"page_size": pageSize,
	})
}

func (backend *Backend) handleCreate(writer http.ResponseWriter, request *http.Request) {
	identity, ok := backend.authenticate(writer, request)
	if !ok {
		return
	}
	if err := request.ParseMultipartForm(16 << 20); err != nil {
		fail(writer, http.StatusBadRequest, "malformed multipart body")
		return
	}
	title := request.FormValue("title")
	description := request.FormValue("description")
	category := civic.Category(request.FormValue("category"))
	if title == "" || description == "" {
		fail(writer, http.StatusUnprocessableEntity, "title and description are required")
		return
	}
	if !category.Valid() {
		fail(writer, http.StatusUnprocessableEntity, "invalid category")
		return
	}
	record := civic.Record{
		OwnerID:          identity.ID,
		OwnerDisplayName: identity.DisplayName,
		OwnerEmail:       identity.Email,
		Title:            title,
		Description:      description,
		Category:         category,
		Status:           civic.StatusPending,
		CreatedAt:        time.Now().UTC(),
	}
	if value := request.FormValue("latitude"); value != "" {
		latitude, _ := strconv.ParseFloat(value, 64)
		longitude, _ := strconv.ParseFloat(request.FormValue("longitude"), 64)
		record.Latitude = &latitude
		record.Longitude = &longitude
	}
	if file, header, err := request.FormFile("image"); err == nil {
		file.Close()
		record.ImageRef = "/uploads/" + header.Filename
	}

	backend.mu.Lock()
	backend.createCalls++
	record.ID = fmt.Sprintf("rec-%d", backend.nextID)
	backend.nextID++
	backend.records = append(backend.records, record)
	backend.mu.Unlock()
	reply(writer, http.StatusCreated, record)
}

// recordID extracts the ID segment from /issues/{id}[/suffix].
func recordID(path string) string {
	trimmed := strings.TrimPrefix(path, "/issues/")
	trimmed, _, _ = strings.Cut(trimmed, "/")
	return trimmed
}

func (backend *Backend) handleDelete(writer http.ResponseWriter, request *http.Request) {
	identity, ok := backend.authenticate(writer, request)
	if !ok {
		return
	}
	id := recordID(request.URL.Path)
	backend.mu.Lock()
	defer backend.mu.Unlock()
	for index, record := range backend.records {
		if record.ID != id {
			continue
		}
		if identity.Role != civic.RoleAuthority && record.OwnerID != identity.ID {
			fail(writer, http.StatusForbidden, "not allowed")
			return
		}
		backend.records = append(backend.records[:index], backend.records[index+1:]...)
		reply(writer, http.StatusOK, map[string]any{"detail": "deleted"})
		return
	}
	fail(writer, http.StatusNotFound, "issue not found")
}

func (backend *Backend) handleStatus(writer http.ResponseWriter, request *http.Request) {
	identity, ok := backend.authenticate(writer, request)
	if !ok {
		return
	}
	if identity.Role != civic.RoleAuthority {
		fail(writer, http.StatusForbidden, "authority role required")
		return
	}
	id := recordID(request.URL.Path)
	var body struct {
		Status  string `json:"status"`
		Comment string `json:"comment"`
	}
	if err := json.NewDecoder(request.Body).Decode(&body); err != nil {
		fail(writer, http.StatusBadRequest, "malformed body")
		return
	}
	status := civic.Status(body.Status)
	if !status.Valid() {
		fail(writer, http.StatusUnprocessableEntity, "invalid status")
		return
	}
	backend.mu.Lock()
	defer backend.mu.Unlock()
	for index := range backend.records {
		if backend.records[index].ID != id {
			continue
		}
		now := time.Now().UTC()
		backend.updates[id] = append(backend.updates[id], civic.StatusUpdate{
			ID:        fmt.Sprintf("upd-%d", len(backend.updates[id])+1),
			OldStatus: backend.records[index].Status,
			NewStatus: status,
			Comment:   body.Comment,
			CreatedAt: now,
		})
		backend.records[index].Status = status
		backend.records[index].UpdatedAt = now
		reply(writer, http.StatusOK, backend.records[index])
		return
	}
	fail(writer, http.StatusNotFound, "issue not found")
}

func (backend *Backend) handleUpdates(writer http.ResponseWriter, request *http.Request) {
	id := recordID(request.URL.Path)
	backend.mu.Lock()
	updates := append([]civic.StatusUpdate(nil), backend.updates[id]...)
	backend.mu.Unlock()
	reply(writer, http.StatusOK, updates)
}

func (backend *Backend) handleAnalytics(writer http.ResponseWriter, request *http.Request) {
	backend.mu.Lock()
	backend.analyticsCalls++
	summary := civic.AnalyticsSummary{}
	for _, record := range backend.records {
		summary.TotalCount++
		switch record.Status {
		case civic.StatusPending:
			summary.PendingCount++
		case civic.StatusCompleted:
			summary.CompletedCount++
		}
	}
	backend.mu.Unlock()
	reply(writer, http.StatusOK, summary)
}

func (backend *Backend) handleClassify(writer http.ResponseWriter, request *http.Request) {
	var body struct {
		Complaint string `json:"complaint"`
	}
	if err := json.NewDecoder(request.Body).Decode(&body); err != nil {
		fail(writer, http.StatusBadRequest, "malformed body")
		return
	}
	if len(strings.TrimSpace(body.Complaint)) < 3 {
		fail(writer, http.StatusUnprocessableEntity, "complaint too short")
		return
	}
	backend.mu.Lock()
	backend.classifyCalls++
	classify := backend.Classify
	backend.mu.Unlock()
	if classify == nil {
		classify = func(string) civic.Classification {
			return civic.Classification{
				Category:       civic.CategoryRoad,
				Urgency:        civic.UrgencyMedium,
				Acknowledgment: "Your complaint has been recorded.",
				Suggestion:     "Dispatch a road crew for inspection.",
			}
		}
	}
	reply(writer, http.StatusOK, classify(body.Complaint))
}

func (backend *Backend) handleComplaints(writer http.ResponseWriter, request *http.Request) {
	backend.mu.Lock()
	complaints := make([]civic.Complaint, 0, len(backend.records))
	for _, record := range backend.records {
		complaints = append(complaints, civic.Complaint{
			ID:        record.ID,
			Text:      record.Description,
			Category:  record.Category,
			Urgency:   civic.UrgencyMedium,
			CreatedAt: record.CreatedAt,
		})
	}
	backend.mu.Unlock()
	reply(writer, http.StatusOK, map[string]any{"items": complaints})
}

func reply(writer http.ResponseWriter, status int, body any) {
	writer.Header().Set("Content-Type", "application/json")
	writer.WriteHeader(status)
	json.NewEncoder(writer).Encode(body)
}

func fail(writer http.ResponseWriter, status int, detail string) {
	reply(writer, status, map[string]string{"detail": detail})
}

func atoiDefault(value string, fallback int) int {
	parsed, err := strconv.Atoi(value)
	if err != nil || parsed < 1 {
		return fallback
	}
	return parsed
}
