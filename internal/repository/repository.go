package repository

import (
	"context"

	"gorm.io/gorm"
)

// Repository aggregate entry point for every repository.
// Catalog reads the institute store; everything else lives in the local store.
type Repository struct {
	Catalog     CatalogRepository
	Score       ScoreRepository
	User        UserRepository
	Form        FormRepository
	Question    QuestionRepository
	Evaluation  EvaluationRepository
	Authority   AuthorityEvaluationRepository
	Coordinator CoordinatorRepository

	local *gorm.DB
}

// NewRepository creates the aggregate over the institute (read) and local (read/write) connections
func NewRepository(instituteDB, localDB *gorm.DB) *Repository {
	r := &Repository{Catalog: NewCatalogRepo(instituteDB)}
	r.bindLocal(localDB)
	return r
}

func (r *Repository) bindLocal(db *gorm.DB) {
	r.local = db
	r.Score = NewScoreRepo(db)
	r.User = NewUserRepo(db)
	r.Form = NewFormRepo(db)
	r.Question = NewQuestionRepo(db)
	r.Evaluation = NewEvaluationRepo(db)
	r.Authority = NewAuthorityEvaluationRepo(db)
	r.Coordinator = NewCoordinatorRepo(db)
}

// Transaction runs fn with the local repositories bound to a single transaction.
// fn's error rolls it back. Without a local connection (hand-built aggregates) fn runs on r.
func (r *Repository) Transaction(ctx context.Context, fn func(tx *Repository) error) error {
	if r.local == nil {
		return fn(r)
	}
	return r.local.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txRepo := &Repository{Catalog: r.Catalog}
		txRepo.bindLocal(tx)
		return fn(txRepo)
	})
}
