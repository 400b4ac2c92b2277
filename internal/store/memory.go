package store

import (
	"context"
	"sort"
	"sync"

	"github.com/ppiankov/credibly/internal/model"
)

// Memory is an in-process Store used for development and tests. It mirrors
// the Postgres semantics: URL uniqueness, create-or-fetch, claims removed
// with their media item.
type Memory struct {
	mu       sync.Mutex
	nextID   int64
	media    map[int64]*model.Media
	byURL    map[string]int64
	claims   map[int64]*model.Claim
	order    map[int64][]int64 // mediaID -> claim IDs in creation order
	creators map[int64]*model.Creator
}

// NewMemory creates an empty in-memory store
func NewMemory() *Memory {
	return &Memory{
		nextID:   1,
		media:    make(map[int64]*model.Media),
		byURL:    make(map[string]int64),
		claims:   make(map[int64]*model.Claim),
		order:    make(map[int64][]int64),
		creators: make(map[int64]*model.Creator),
	}
}

func (m *Memory) id() int64 {
	id := m.nextID
	m.nextID++
	return id
}

// GetMediaByURL returns the media item for url, or ErrNotFound
func (m *Memory) GetMediaByURL(_ context.Context, url string) (*model.Media, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	id, ok := m.byURL[url]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *m.media[id]
	return &cp, nil
}

// CreateMedia inserts a media item, or returns the existing one for url
func (m *Memory) CreateMedia(_ context.Context, url, name string) (*model.Media, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if id, ok := m.byURL[url]; ok {
		cp := *m.media[id]
		return &cp, nil
	}

	media := &model.Media{ID: m.id(), URL: url, Name: name}
	m.media[media.ID] = media
	m.byURL[url] = media.ID

	cp := *media
	return &cp, nil
}

// SaveMedia persists mutable media fields
func (m *Memory) SaveMedia(_ context.Context, media *model.Media) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.media[media.ID]
	if !ok {
		return ErrNotFound
	}
	existing.Name = media.Name
	existing.Complete = media.Complete
	existing.Creator = media.Creator
	return nil
}

// ListClaims returns all claims of a media item in creation order
func (m *Memory) ListClaims(_ context.Context, mediaID int64) ([]model.Claim, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	ids := m.order[mediaID]
	claims := make([]model.Claim, 0, len(ids))
	for _, id := range ids {
		claims = append(claims, *m.claims[id])
	}
	return claims, nil
}

// CreateClaim inserts a claim and fills in its ID
func (m *Memory) CreateClaim(_ context.Context, claim *model.Claim) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.media[claim.MediaID]; !ok {
		return ErrNotFound
	}

	claim.ID = m.id()
	cp := *claim
	m.claims[claim.ID] = &cp
	m.order[claim.MediaID] = append(m.order[claim.MediaID], claim.ID)
	return nil
}

// DeleteClaims removes every claim of a media item
func (m *Memory) DeleteClaims(_ context.Context, mediaID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, id := range m.order[mediaID] {
		delete(m.claims, id)
	}
	delete(m.order, mediaID)
	return nil
}

// GetClaim returns one claim by id, or ErrNotFound
func (m *Memory) GetClaim(_ context.Context, id int64) (*model.Claim, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	claim, ok := m.claims[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *claim
	return &cp, nil
}

// UpdateClaimAccuracy commits a verification judgment
func (m *Memory) UpdateClaimAccuracy(_ context.Context, id int64, accuracy, certainty float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	claim, ok := m.claims[id]
	if !ok {
		return ErrNotFound
	}
	claim.Accuracy = &accuracy
	claim.AccuracyCertainty = &certainty
	return nil
}

// CreateCreator inserts a creator and fills in its ID
func (m *Memory) CreateCreator(_ context.Context, creator *model.Creator) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	creator.ID = m.id()
	cp := *creator
	m.creators[creator.ID] = &cp
	return nil
}

// ListCreatorStandings returns creators ranked by mean confirmed accuracy
func (m *Memory) ListCreatorStandings(_ context.Context) ([]model.CreatorStanding, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	type acc struct {
		mediaCount int
		sum        float64
		verified   int
	}
	byCreator := make(map[int64]*acc)
	for id := range m.creators {
		byCreator[id] = &acc{}
	}

	for _, media := range m.media {
		if media.Creator == nil {
			continue
		}
		a, ok := byCreator[*media.Creator]
		if !ok {
			continue
		}
		a.mediaCount++
		for _, claimID := range m.order[media.ID] {
			claim := m.claims[claimID]
			if claim.Accuracy != nil {
				a.sum += *claim.Accuracy
				a.verified++
			}
		}
	}

	standings := make([]model.CreatorStanding, 0, len(byCreator))
	for id, a := range byCreator {
		standing := model.CreatorStanding{
			Creator:    *m.creators[id],
			MediaCount: a.mediaCount,
		}
		if a.verified > 0 {
			avg := a.sum / float64(a.verified)
			standing.AverageAccuracy = &avg
		}
		standings = append(standings, standing)
	}

	sort.Slice(standings, func(i, j int) bool {
		ai, aj := standings[i].AverageAccuracy, standings[j].AverageAccuracy
		switch {
		case ai == nil && aj == nil:
			return standings[i].Creator.Name < standings[j].Creator.Name
		case ai == nil:
			return false
		case aj == nil:
			return true
		case *ai != *aj:
			return *ai > *aj
		default:
			return standings[i].Creator.Name < standings[j].Creator.Name
		}
	})

	return standings, nil
}
