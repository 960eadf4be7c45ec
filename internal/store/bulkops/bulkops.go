// Package bulkops runs batched mutations on top of any adapter's typed CRUD
// operations, so every backend shares one per-item dispatch and merge-update
// behaviour.
package bulkops

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/noah-isme/school-data-api/internal/models"
)

// EntityStore is the slice of an adapter the bulk runner needs.
type EntityStore interface {
	CreatePerson(ctx context.Context, person *models.Person) (*models.Person, error)
	GetPerson(ctx context.Context, id string) (*models.Person, error)
	UpdatePerson(ctx context.Context, person *models.Person) (*models.Person, error)
	DeletePerson(ctx context.Context, id string) error

	CreateStudent(ctx context.Context, student *models.Student) (*models.Student, error)
	GetStudent(ctx context.Context, id string) (*models.Student, error)
	UpdateStudent(ctx context.Context, student *models.Student) (*models.Student, error)
	DeleteStudent(ctx context.Context, id string) error

	CreateTeacher(ctx context.Context, teacher *models.Teacher) (*models.Teacher, error)
	GetTeacher(ctx context.Context, id string) (*models.Teacher, error)
	UpdateTeacher(ctx context.Context, teacher *models.Teacher) (*models.Teacher, error)
	DeleteTeacher(ctx context.Context, id string) error

	CreateClass(ctx context.Context, class *models.Class) (*models.Class, error)
	GetClass(ctx context.Context, id string) (*models.Class, error)
	UpdateClass(ctx context.Context, class *models.Class) (*models.Class, error)
	DeleteClass(ctx context.Context, id string) error
}

// Run executes the operation batch by batch. Item failures land in the
// result; only a cancelled context aborts the run.
func Run(ctx context.Context, store EntityStore, op *models.BulkOperation) (*models.BulkResult, error) {
	result := &models.BulkResult{}
	for _, batch := range op.Batches() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		for _, item := range batch {
			result.Add(applyItem(ctx, store, op, item))
		}
	}
	return result, nil
}

func applyItem(ctx context.Context, store EntityStore, op *models.BulkOperation, item map[string]interface{}) error {
	switch op.OperationType {
	case models.BulkCreate:
		return createItem(ctx, store, op.EntityType, item)
	case models.BulkUpdate:
		return updateItem(ctx, store, op.EntityType, item)
	case models.BulkDelete:
		return deleteItem(ctx, store, op.EntityType, item)
	}
	return nil
}

func createItem(ctx context.Context, store EntityStore, kind models.EntityKind, item map[string]interface{}) error {
	now := time.Now().UTC()
	switch kind {
	case models.KindPerson:
		var person models.Person
		if err := models.DecodeItem(item, &person); err != nil {
			return err
		}
		if err := person.Normalize(); err != nil {
			return err
		}
		person.Stamp(uuid.NewString(), now)
		_, err := store.CreatePerson(ctx, &person)
		return err
	case models.KindStudent:
		var student models.Student
		if err := models.DecodeItem(item, &student); err != nil {
			return err
		}
		if err := student.Normalize(); err != nil {
			return err
		}
		student.Stamp(uuid.NewString(), now)
		_, err := store.CreateStudent(ctx, &student)
		return err
	case models.KindTeacher:
		var teacher models.Teacher
		if err := models.DecodeItem(item, &teacher); err != nil {
			return err
		}
		if err := teacher.Normalize(); err != nil {
			return err
		}
		teacher.Stamp(uuid.NewString(), now)
		_, err := store.CreateTeacher(ctx, &teacher)
		return err
	case models.KindClass:
		var class models.Class
		if err := models.DecodeItem(item, &class); err != nil {
			return err
		}
		if err := class.Normalize(); err != nil {
			return err
		}
		class.Stamp(uuid.NewString(), now)
		_, err := store.CreateClass(ctx, &class)
		return err
	}
	return nil
}

// updateItem fetches the current record and lets the item's fields overwrite
// it, so partial items act as merges rather than blank replacements.
func updateItem(ctx context.Context, store EntityStore, kind models.EntityKind, item map[string]interface{}) error {
	id, err := models.ItemID(item)
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	switch kind {
	case models.KindPerson:
		current, err := store.GetPerson(ctx, id)
		if err != nil {
			return err
		}
		if err := models.DecodeItem(item, current); err != nil {
			return err
		}
		if err := current.Normalize(); err != nil {
			return err
		}
		current.ID = id
		current.UpdatedAt = now
		_, err = store.UpdatePerson(ctx, current)
		return err
	case models.KindStudent:
		current, err := store.GetStudent(ctx, id)
		if err != nil {
			return err
		}
		if err := models.DecodeItem(item, current); err != nil {
			return err
		}
		if err := current.Normalize(); err != nil {
			return err
		}
		current.ID = id
		current.UpdatedAt = now
		_, err = store.UpdateStudent(ctx, current)
		return err
	case models.KindTeacher:
		current, err := store.GetTeacher(ctx, id)
		if err != nil {
			return err
		}
		if err := models.DecodeItem(item, current); err != nil {
			return err
		}
		if err := current.Normalize(); err != nil {
			return err
		}
		current.ID = id
		current.UpdatedAt = now
		_, err = store.UpdateTeacher(ctx, current)
		return err
	case models.KindClass:
		current, err := store.GetClass(ctx, id)
		if err != nil {
			return err
		}
		if err := models.DecodeItem(item, current); err != nil {
			return err
		}
		if err := current.Normalize(); err != nil {
			return err
		}
		current.ID = id
		current.UpdatedAt = now
		_, err = store.UpdateClass(ctx, current)
		return err
	}
	return nil
}

func deleteItem(ctx context.Context, store EntityStore, kind models.EntityKind, item map[string]interface{}) error {
	id, err := models.ItemID(item)
	if err != nil {
		return err
	}
	switch kind {
	case models.KindPerson:
		return store.DeletePerson(ctx, id)
	case models.KindStudent:
		return store.DeleteStudent(ctx, id)
	case models.KindTeacher:
		return store.DeleteTeacher(ctx, id)
	case models.KindClass:
		return store.DeleteClass(ctx, id)
	}
	return nil
}
