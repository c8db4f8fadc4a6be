package memory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"gymbro-be/internal/entity"
	"gymbro-be/internal/repository/contract"
	"gymbro-be/internal/repository/specification"
)

type UserProfileRepository struct {
	store *Store
}

var _ contract.UserProfileRepository = &UserProfileRepository{}

func NewUserProfileRepository(store *Store) *UserProfileRepository {
	return &UserProfileRepository{store: store}
}

func (r *UserProfileRepository) Create(ctx context.Context, profile *entity.UserProfile) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	existing, err := query(ctx, r.store.profiles, specification.ByUsername{Username: profile.Username})
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return fmt.Errorf("username %q already exists", profile.Username)
	}

	if profile.Id == uuid.Nil {
		profile.Id = uuid.New()
	}
	now := time.Now()
	profile.CreatedAt, profile.UpdatedAt = now, now
	r.store.put(r.store.profiles, profile.Id.String(), cloneProfile(profile))
	return nil
}

func (r *UserProfileRepository) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.UserProfile, error) {
	values, err := query(ctx, r.store.profiles, specs...)
	if err != nil || len(values) == 0 {
		return nil, err
	}
	return cloneProfile(values[0].(*entity.UserProfile)), nil
}

func (r *UserProfileRepository) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.UserProfile, error) {
	values, err := query(ctx, r.store.profiles, specs...)
	if err != nil {
		return nil, err
	}
	profiles := make([]*entity.UserProfile, len(values))
	for i, v := range values {
		profiles[i] = cloneProfile(v.(*entity.UserProfile))
	}
	return profiles, nil
}

func (r *UserProfileRepository) UpdateGoal(ctx context.Context, id uuid.UUID, goal string) error {
	return r.update(ctx, id, func(p *entity.UserProfile) { p.Goal = goal })
}

func (r *UserProfileRepository) SetContinuationToken(ctx context.Context, id uuid.UUID, token string) error {
	return r.update(ctx, id, func(p *entity.UserProfile) { p.ContinuationToken = &token })
}

func (r *UserProfileRepository) SetPendingLog(ctx context.Context, id uuid.UUID, proposal *entity.PendingLogProposal) error {
	return r.update(ctx, id, func(p *entity.UserProfile) {
		if proposal == nil {
			p.PendingLog = nil
			return
		}
		cp := cloneProposal(proposal)
		if cp.ProposedAt.IsZero() {
			cp.ProposedAt = time.Now()
		}
		p.PendingLog = cp
	})
}

func (r *UserProfileRepository) ClearPendingLog(ctx context.Context, id uuid.UUID) error {
	return r.update(ctx, id, func(p *entity.UserProfile) { p.PendingLog = nil })
}

func (r *UserProfileRepository) ClearConversation(ctx context.Context, id uuid.UUID) error {
	return r.update(ctx, id, func(p *entity.UserProfile) {
		p.ContinuationToken = nil
		p.PendingLog = nil
	})
}

// update is a no-op for unknown ids, like a zero-row UPDATE.
func (r *UserProfileRepository) update(ctx context.Context, id uuid.UUID, mutate func(*entity.UserProfile)) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	raw, found := r.store.profiles.Get(id.String())
	if !found {
		return nil
	}
	p := cloneProfile(raw.(item).value.(*entity.UserProfile))
	mutate(p)
	p.UpdatedAt = time.Now()
	r.store.put(r.store.profiles, id.String(), p)
	return nil
}

func cloneProfile(p *entity.UserProfile) *entity.UserProfile {
	cp := *p
	if p.ContinuationToken != nil {
		token := *p.ContinuationToken
		cp.ContinuationToken = &token
	}
	if p.PendingLog != nil {
		cp.PendingLog = cloneProposal(p.PendingLog)
	}
	return &cp
}

func cloneProposal(p *entity.PendingLogProposal) *entity.PendingLogProposal {
	cp := *p
	cp.Payload = append([]byte(nil), p.Payload...)
	return &cp
}
