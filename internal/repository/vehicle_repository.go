package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/motocred/financing-engine/internal/domain"
)

type vehicleRepository struct {
	db *sqlx.DB
}

func NewVehicleRepository(db *sqlx.DB) VehicleRepository {
	return &vehicleRepository{db: db}
}

func (r *vehicleRepository) Create(ctx context.Context, moto *domain.Moto) error {
	now := time.Now()
	moto.CreatedAt = now
	moto.UpdatedAt = now

	query := `
		INSERT INTO motos (id, marca, modelo, ano, placa, valor, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := r.db.ExecContext(ctx, query,
		moto.ID,
		moto.Marca,
		moto.Modelo,
		moto.Ano,
		moto.Placa,
		moto.Valor,
		moto.Status,
		moto.CreatedAt,
		moto.UpdatedAt,
	)
	return err
}

func (r *vehicleRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Moto, error) {
	query := `
		SELECT id, marca, modelo, ano, placa, valor, status, created_at, updated_at
		FROM motos
		WHERE id = $1
	`

	var moto domain.Moto
	if err := r.db.GetContext(ctx, &moto, query, id); err != nil {
		return nil, err
	}
	return &moto, nil
}

func (r *vehicleRepository) GetAll(ctx context.Context) ([]*domain.Moto, error) {
	query := `
		SELECT id, marca, modelo, ano, placa, valor, status, created_at, updated_at
		FROM motos
		ORDER BY marca, modelo
	`

	var motos []*domain.Moto
	if err := r.db.SelectContext(ctx, &motos, query); err != nil {
		return nil, err
	}
	return motos, nil
}

func (r *vehicleRepository) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM motos WHERE id = $1`, id)
	return err
}
