package pgstore

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/lib/pq"

	"github.com/noah-isme/school-data-api/internal/models"
)

type classCountRow struct {
	ClassID   string `db:"class_id"`
	ClassName string `db:"class_name"`
	Count     int    `db:"count"`
}

type classScoreRow struct {
	ClassID      string  `db:"class_id"`
	ClassName    string  `db:"class_name"`
	AverageScore float64 `db:"average_score"`
	TotalScores  int     `db:"total_scores"`
}

type classSubjectsRow struct {
	ClassID   string         `db:"class_id"`
	ClassName string         `db:"class_name"`
	Subjects  pq.StringArray `db:"subjects"`
}

// StudentsPerClass counts active enrollments per class. An empty classID
// covers every class.
func (s *Store) StudentsPerClass(ctx context.Context, classID string) (*models.AggregateResult, error) {
	query := `SELECT c.id AS class_id, c.name AS class_name, COUNT(e.id) AS count
		FROM classes c
		LEFT JOIN class_enrollments e ON e.class_id = c.id AND e.is_active`
	query, args := scopeToClass(query, classID)
	query += ` GROUP BY c.id, c.name ORDER BY c.name`

	var rows []classCountRow
	if err := s.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, mapError(err, "students per class")
	}

	results := make([]map[string]interface{}, 0, len(rows))
	for _, row := range rows {
		results = append(results, map[string]interface{}{
			"class_id":      row.ClassID,
			"class_name":    row.ClassName,
			"student_count": row.Count,
		})
	}
	return &models.AggregateResult{Results: results, Count: len(results)}, nil
}

// AverageScorePerClass averages assessment scores per class.
func (s *Store) AverageScorePerClass(ctx context.Context, classID string) (*models.AggregateResult, error) {
	query := `SELECT c.id AS class_id, c.name AS class_name,
			COALESCE(ROUND(AVG(sc.score)::numeric, 2), 0) AS average_score,
			COUNT(sc.id) AS total_scores
		FROM classes c
		LEFT JOIN scores sc ON sc.class_id = c.id`
	query, args := scopeToClass(query, classID)
	query += ` GROUP BY c.id, c.name ORDER BY c.name`

	var rows []classScoreRow
	if err := s.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, mapError(err, "average score per class")
	}

	results := make([]map[string]interface{}, 0, len(rows))
	for _, row := range rows {
		results = append(results, map[string]interface{}{
			"class_id":      row.ClassID,
			"class_name":    row.ClassName,
			"average_score": row.AverageScore,
			"total_scores":  row.TotalScores,
		})
	}
	return &models.AggregateResult{Results: results, Count: len(results)}, nil
}

// TeachersPerClass counts distinct actively assigned teachers per class.
func (s *Store) TeachersPerClass(ctx context.Context, classID string) (*models.AggregateResult, error) {
	query := `SELECT c.id AS class_id, c.name AS class_name,
			COUNT(DISTINCT a.teacher_id) AS count
		FROM classes c
		LEFT JOIN teacher_assignments a ON a.class_id = c.id AND a.is_active`
	query, args := scopeToClass(query, classID)
	query += ` GROUP BY c.id, c.name ORDER BY c.name`

	var rows []classCountRow
	if err := s.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, mapError(err, "teachers per class")
	}

	results := make([]map[string]interface{}, 0, len(rows))
	for _, row := range rows {
		results = append(results, map[string]interface{}{
			"class_id":      row.ClassID,
			"class_name":    row.ClassName,
			"teacher_count": row.Count,
		})
	}
	return &models.AggregateResult{Results: results, Count: len(results)}, nil
}

// SubjectsPerClass lists the distinct subjects taught in each class.
func (s *Store) SubjectsPerClass(ctx context.Context, classID string) (*models.AggregateResult, error) {
	query := `SELECT c.id AS class_id, c.name AS class_name,
			COALESCE(ARRAY_AGG(DISTINCT a.subject) FILTER (WHERE a.subject IS NOT NULL), '{}') AS subjects
		FROM classes c
		LEFT JOIN teacher_assignments a ON a.class_id = c.id AND a.is_active`
	query, args := scopeToClass(query, classID)
	query += ` GROUP BY c.id, c.name ORDER BY c.name`

	var rows []classSubjectsRow
	if err := s.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, mapError(err, "subjects per class")
	}

	results := make([]map[string]interface{}, 0, len(rows))
	for _, row := range rows {
		results = append(results, map[string]interface{}{
			"class_id":      row.ClassID,
			"class_name":    row.ClassName,
			"subjects":      []string(row.Subjects),
			"subject_count": len(row.Subjects),
		})
	}
	return &models.AggregateResult{Results: results, Count: len(results)}, nil
}

// Aggregate runs a whitelisted group-and-count query. Field names come from
// the descriptor's whitelist, never raw caller input; values are always bound
// parameters.
func (s *Store) Aggregate(ctx context.Context, query *models.AggregateQuery) (*models.AggregateResult, error) {
	var (
		conditions []string
		args       []interface{}
	)
	for _, field := range sortedFilterFields(query.Filters) {
		args = append(args, query.Filters[field])
		conditions = append(conditions, fmt.Sprintf("%s = $%d", field, len(args)))
	}

	var sb strings.Builder
	if len(query.GroupBy) > 0 {
		groupCols := strings.Join(query.GroupBy, ", ")
		fmt.Fprintf(&sb, "SELECT %s, COUNT(*) AS count FROM %s", groupCols, query.Storage())
	} else {
		fmt.Fprintf(&sb, "SELECT COUNT(*) AS count FROM %s", query.Storage())
	}
	if len(conditions) > 0 {
		sb.WriteString(" WHERE " + strings.Join(conditions, " AND "))
	}
	if len(query.GroupBy) > 0 {
		sb.WriteString(" GROUP BY " + strings.Join(query.GroupBy, ", "))
		sortBy := query.SortBy
		if sortBy == "" {
			sortBy = "count"
		}
		fmt.Fprintf(&sb, " ORDER BY %s %s", sortBy, strings.ToUpper(query.SortOrder))
	}
	if query.Limit > 0 {
		fmt.Fprintf(&sb, " LIMIT %d", query.Limit)
	}

	rows, err := s.db.QueryxContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, mapError(err, "aggregate")
	}
	defer rows.Close()

	var results []map[string]interface{}
	for rows.Next() {
		row := map[string]interface{}{}
		if err := rows.MapScan(row); err != nil {
			return nil, fmt.Errorf("scan aggregate row: %w", err)
		}
		for k, v := range row {
			if raw, ok := v.([]byte); ok {
				row[k] = string(raw)
			}
		}
		results = append(results, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate aggregate rows: %w", err)
	}
	return &models.AggregateResult{Results: results, Count: len(results)}, nil
}

func scopeToClass(query, classID string) (string, []interface{}) {
	if classID == "" {
		return query, nil
	}
	return query + ` WHERE c.id = $1`, []interface{}{classID}
}

func sortedFilterFields(filters map[string]interface{}) []string {
	fields := make([]string, 0, len(filters))
	for field := range filters {
		fields = append(fields, field)
	}
	// Deterministic parameter order keeps queries reproducible across runs.
	sort.Strings(fields)
	return fields
}
