package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/motocred/financing-engine/internal/domain"
)

type contractRepository struct {
	db *sqlx.DB
}

func NewContractRepository(db *sqlx.DB) ContractRepository {
	return &contractRepository{db: db}
}

const insertParcelaQuery = `
	INSERT INTO parcelas (id, financiamento_id, numero, data_vencimento, data_pagamento,
		valor_original, valor_juros, valor_multa, valor_total, status, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
`

func (r *contractRepository) Create(ctx context.Context, contrato *domain.Financiamento) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	now := time.Now()
	contrato.CreatedAt = now
	contrato.UpdatedAt = now

	query := `
		INSERT INTO financiamentos (id, numero, cliente_id, moto_id, valor_total, valor_entrada,
			valor_financiado, quantidade_parcelas, taxa_juros_atraso, valor_multa_atraso,
			taxa_financiamento, data_contrato, status, inconsistente, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	`
	_, err = tx.ExecContext(ctx, query,
		contrato.ID,
		contrato.Numero,
		contrato.ClienteID,
		contrato.MotoID,
		contrato.ValorTotal,
		contrato.ValorEntrada,
		contrato.ValorFinanciado,
		contrato.QuantidadeParcelas,
		contrato.TaxaJurosAtraso,
		contrato.ValorMultaAtraso,
		contrato.TaxaFinanciamento,
		contrato.DataContrato,
		contrato.Status,
		contrato.Inconsistente,
		contrato.CreatedAt,
		contrato.UpdatedAt,
	)
	if err != nil {
		return err
	}

	for _, p := range contrato.Parcelas {
		p.CreatedAt = now
		p.UpdatedAt = now
		_, err = tx.ExecContext(ctx, insertParcelaQuery,
			p.ID, p.FinanciamentoID, p.Numero, p.DataVencimento, p.DataPagamento,
			p.ValorOriginal, p.ValorJuros, p.ValorMulta, p.ValorTotal, p.Status,
			p.CreatedAt, p.UpdatedAt,
		)
		if err != nil {
			return err
		}
	}

	// Vehicle sale and contract creation must land together.
	_, err = tx.ExecContext(ctx,
		`UPDATE motos SET status = $2, updated_at = $3 WHERE id = $1`,
		contrato.MotoID, domain.MotoStatusVendida, now,
	)
	if err != nil {
		return err
	}

	return tx.Commit()
}

func (r *contractRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Financiamento, error) {
	query := `
		SELECT id, numero, cliente_id, moto_id, valor_total, valor_entrada, valor_financiado,
			quantidade_parcelas, taxa_juros_atraso, valor_multa_atraso, taxa_financiamento,
			data_contrato, status, inconsistente, created_at, updated_at
		FROM financiamentos
		WHERE id = $1
	`

	var contrato domain.Financiamento
	if err := r.db.GetContext(ctx, &contrato, query, id); err != nil {
		return nil, err
	}

	parcelas, err := r.getParcelas(ctx, id)
	if err != nil {
		return nil, err
	}
	contrato.Parcelas = parcelas

	return &contrato, nil
}

func (r *contractRepository) GetAll(ctx context.Context) ([]*domain.Financiamento, error) {
	query := `
		SELECT id, numero, cliente_id, moto_id, valor_total, valor_entrada, valor_financiado,
			quantidade_parcelas, taxa_juros_atraso, valor_multa_atraso, taxa_financiamento,
			data_contrato, status, inconsistente, created_at, updated_at
		FROM financiamentos
		ORDER BY numero
	`

	var contratos []*domain.Financiamento
	if err := r.db.SelectContext(ctx, &contratos, query); err != nil {
		return nil, err
	}

	parcelaQuery := `
		SELECT id, financiamento_id, numero, data_vencimento, data_pagamento, valor_original,
			valor_juros, valor_multa, valor_total, status, created_at, updated_at
		FROM parcelas
		ORDER BY financiamento_id, numero
	`
	var parcelas []*domain.Parcela
	if err := r.db.SelectContext(ctx, &parcelas, parcelaQuery); err != nil {
		return nil, err
	}

	byContract := make(map[uuid.UUID]*domain.Financiamento, len(contratos))
	for _, c := range contratos {
		byContract[c.ID] = c
	}
	for _, p := range parcelas {
		if c, ok := byContract[p.FinanciamentoID]; ok {
			c.Parcelas = append(c.Parcelas, p)
		}
	}

	return contratos, nil
}

func (r *contractRepository) Update(ctx context.Context, contrato *domain.Financiamento) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	now := time.Now()
	query := `
		UPDATE financiamentos
		SET valor_total = $2, valor_entrada = $3, valor_financiado = $4, status = $5,
			inconsistente = $6, updated_at = $7
		WHERE id = $1
	`
	_, err = tx.ExecContext(ctx, query,
		contrato.ID,
		contrato.ValorTotal,
		contrato.ValorEntrada,
		contrato.ValorFinanciado,
		contrato.Status,
		contrato.Inconsistente,
		now,
	)
	if err != nil {
		return err
	}

	parcelaQuery := `
		UPDATE parcelas
		SET data_pagamento = $3, valor_original = $4, valor_juros = $5, valor_multa = $6,
			valor_total = $7, status = $8, updated_at = $9
		WHERE financiamento_id = $1 AND numero = $2
	`
	for _, p := range contrato.Parcelas {
		_, err = tx.ExecContext(ctx, parcelaQuery,
			contrato.ID, p.Numero, p.DataPagamento, p.ValorOriginal,
			p.ValorJuros, p.ValorMulta, p.ValorTotal, p.Status, now,
		)
		if err != nil {
			return err
		}
	}

	contrato.UpdatedAt = now
	return tx.Commit()
}

func (r *contractRepository) ExistsByMotoID(ctx context.Context, motoID uuid.UUID) (bool, error) {
	var count int
	err := r.db.GetContext(ctx, &count,
		`SELECT COUNT(1) FROM financiamentos WHERE moto_id = $1`, motoID)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *contractRepository) NextNumero(ctx context.Context) (int, error) {
	var numero int
	err := r.db.GetContext(ctx, &numero,
		`SELECT COALESCE(MAX(numero), 0) + 1 FROM financiamentos`)
	if err != nil {
		return 0, err
	}
	return numero, nil
}

func (r *contractRepository) getParcelas(ctx context.Context, contratoID uuid.UUID) ([]*domain.Parcela, error) {
	query := `
		SELECT id, financiamento_id, numero, data_vencimento, data_pagamento, valor_original,
			valor_juros, valor_multa, valor_total, status, created_at, updated_at
		FROM parcelas
		WHERE financiamento_id = $1
		ORDER BY numero
	`

	var parcelas []*domain.Parcela
	if err := r.db.SelectContext(ctx, &parcelas, query, contratoID); err != nil {
		return nil, err
	}
	return parcelas, nil
}
