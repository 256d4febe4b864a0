package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/motocred/financing-engine/internal/domain"
)

type customerRepository struct {
	db *sqlx.DB
}

func NewCustomerRepository(db *sqlx.DB) CustomerRepository {
	return &customerRepository{db: db}
}

func (r *customerRepository) Create(ctx context.Context, cliente *domain.Cliente) error {
	cliente.CreatedAt = time.Now()

	query := `
		INSERT INTO clientes (id, nome, cpf, telefone, email, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.db.ExecContext(ctx, query,
		cliente.ID,
		cliente.Nome,
		cliente.CPF,
		cliente.Telefone,
		cliente.Email,
		cliente.CreatedAt,
	)
	return err
}

func (r *customerRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Cliente, error) {
	query := `
		SELECT id, nome, cpf, telefone, email, created_at
		FROM clientes
		WHERE id = $1
	`

	var cliente domain.Cliente
	if err := r.db.GetContext(ctx, &cliente, query, id); err != nil {
		return nil, err
	}
	return &cliente, nil
}

func (r *customerRepository) GetAll(ctx context.Context) ([]*domain.Cliente, error) {
	query := `
		SELECT id, nome, cpf, telefone, email, created_at
		FROM clientes
		ORDER BY nome
	`

	var clientes []*domain.Cliente
	if err := r.db.SelectContext(ctx, &clientes, query); err != nil {
		return nil, err
	}
	return clientes, nil
}
