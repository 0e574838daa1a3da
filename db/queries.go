package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const insertClass = `INSERT INTO class (code, units, description) VALUES ($1, $2, $3) ON CONFLICT (code) DO NOTHING`
const insertRequirementClass = `INSERT INTO requirement_classes (req_id, class_id) SELECT $1::integer, id FROM class WHERE lower(code) = lower($2) ON CONFLICT DO NOTHING`
const updateClassUnits = `UPDATE class SET units = $1 WHERE lower(code) = lower($2)`

type RequirementClass struct {
	RequirementID int
	Code          string
}

func insertCallback(ct pgconn.CommandTag) error {
	return nil
}

func (d *Database) sendBatch(ctx context.Context, batch *pgx.Batch, queuedQueries []*pgx.QueuedQuery) error {
	for _, queuedQuery := range queuedQueries {
		queuedQuery.Exec(insertCallback)
	}

	if err := d.Pool.SendBatch(ctx, batch).Close(); err != nil {
		return err
	}

	return nil
}

func (d *Database) InsertClasses(ctx context.Context, courses []*Course) error {
	if len(courses) == 0 {
		return nil
	}

	batch := classesBatch(courses)
	if err := d.sendBatch(ctx, batch, batch.QueuedQueries); err != nil {
		return fmt.Errorf("db: insert classes: %w", err)
	}

	return nil
}

func (d *Database) InsertRequirementClasses(ctx context.Context, requirementClasses []RequirementClass) error {
	if len(requirementClasses) == 0 {
		return nil
	}

	batch := requirementClassesBatch(requirementClasses)
	if err := d.sendBatch(ctx, batch, batch.QueuedQueries); err != nil {
		return fmt.Errorf("db: insert requirement classes: %w", err)
	}

	return nil
}

func (d *Database) UpdateUnits(ctx context.Context, codes []string, units int) error {
	if len(codes) == 0 {
		return nil
	}

	batch := unitsBatch(codes, units)
	if err := d.sendBatch(ctx, batch, batch.QueuedQueries); err != nil {
		return fmt.Errorf("db: update units: %w", err)
	}

	return nil
}

func classesBatch(courses []*Course) *pgx.Batch {
	batch := &pgx.Batch{}
	for _, course := range courses {
		batch.Queue(insertClass, course.Code(), course.Units, course.Title)
	}
	return batch
}

func requirementClassesBatch(requirementClasses []RequirementClass) *pgx.Batch {
	batch := &pgx.Batch{}
	for _, requirementClass := range requirementClasses {
		batch.Queue(insertRequirementClass, requirementClass.RequirementID, requirementClass.Code)
	}
	return batch
}

func unitsBatch(codes []string, units int) *pgx.Batch {
	batch := &pgx.Batch{}
	for _, code := range codes {
		batch.Queue(updateClassUnits, units, code)
	}
	return batch
}
