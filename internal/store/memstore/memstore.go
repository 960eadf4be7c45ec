// Package memstore is an in-memory Store used by tests that need a working
// backend without external processes. It enforces the same uniqueness and
// referential rules as the real adapters.
package memstore

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/noah-isme/school-data-api/internal/models"
	"github.com/noah-isme/school-data-api/internal/store/bulkops"
	appErrors "github.com/noah-isme/school-data-api/pkg/errors"
)

// Store keeps every entity in maps guarded by one mutex.
type Store struct {
	mu sync.Mutex

	persons  map[string]*models.Person
	students map[string]*models.Student
	teachers map[string]*models.Teacher
	classes  map[string]*models.Class

	enrollments []models.ClassEnrollment
	assignments []models.TeacherAssignment
	scores      []models.Score
}

// New returns an empty in-memory store.
func New() *Store {
	return &Store{
		persons:  map[string]*models.Person{},
		students: map[string]*models.Student{},
		teachers: map[string]*models.Teacher{},
		classes:  map[string]*models.Class{},
	}
}

// Connect is a no-op.
func (s *Store) Connect(context.Context) error { return nil }

// Disconnect is a no-op.
func (s *Store) Disconnect(context.Context) error { return nil }

// Ping is a no-op.
func (s *Store) Ping(context.Context) error { return nil }

func (s *Store) emailTaken(email, excludeID string) bool {
	for _, p := range s.persons {
		if p.Email == email && p.ID != excludeID {
			return true
		}
	}
	for _, st := range s.students {
		if st.Email == email && st.ID != excludeID {
			return true
		}
	}
	for _, t := range s.teachers {
		if t.Email == email && t.ID != excludeID {
			return true
		}
	}
	return false
}

// CreatePerson stores a person, enforcing email uniqueness.
func (s *Store) CreatePerson(_ context.Context, person *models.Person) (*models.Person, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.emailTaken(person.Email, "") {
		return nil, appErrors.Conflict(nil, "email already used")
	}
	cp := *person
	s.persons[person.ID] = &cp
	return person, nil
}

// GetPerson returns a stored person.
func (s *Store) GetPerson(_ context.Context, id string) (*models.Person, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.persons[id]
	if !ok {
		return nil, appErrors.NotFound("person")
	}
	cp := *p
	return &cp, nil
}

// UpdatePerson replaces a stored person.
func (s *Store) UpdatePerson(_ context.Context, person *models.Person) (*models.Person, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.persons[person.ID]; !ok {
		return nil, appErrors.NotFound("person")
	}
	if s.emailTaken(person.Email, person.ID) {
		return nil, appErrors.Conflict(nil, "email already used")
	}
	cp := *person
	s.persons[person.ID] = &cp
	return person, nil
}

// DeletePerson removes a stored person.
func (s *Store) DeletePerson(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.persons[id]; !ok {
		return appErrors.NotFound("person")
	}
	delete(s.persons, id)
	return nil
}

// CreateStudent stores a student, enforcing email uniqueness.
func (s *Store) CreateStudent(_ context.Context, student *models.Student) (*models.Student, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.emailTaken(student.Email, "") {
		return nil, appErrors.Conflict(nil, "email already used")
	}
	cp := *student
	s.students[student.ID] = &cp
	return student, nil
}

// GetStudent returns a stored student.
func (s *Store) GetStudent(_ context.Context, id string) (*models.Student, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.students[id]
	if !ok {
		return nil, appErrors.NotFound("student")
	}
	cp := *st
	return &cp, nil
}

// UpdateStudent replaces a stored student.
func (s *Store) UpdateStudent(_ context.Context, student *models.Student) (*models.Student, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.students[student.ID]; !ok {
		return nil, appErrors.NotFound("student")
	}
	if s.emailTaken(student.Email, student.ID) {
		return nil, appErrors.Conflict(nil, "email already used")
	}
	cp := *student
	s.students[student.ID] = &cp
	return student, nil
}

// DeleteStudent removes a student and its enrollments and scores.
func (s *Store) DeleteStudent(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.students[id]; !ok {
		return appErrors.NotFound("student")
	}
	delete(s.students, id)
	s.enrollments = filterEnrollments(s.enrollments, func(e models.ClassEnrollment) bool {
		return e.StudentID != id
	})
	s.scores = filterScores(s.scores, func(sc models.Score) bool {
		return sc.StudentID != id
	})
	return nil
}

// CreateTeacher stores a teacher, enforcing email uniqueness.
func (s *Store) CreateTeacher(_ context.Context, teacher *models.Teacher) (*models.Teacher, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.emailTaken(teacher.Email, "") {
		return nil, appErrors.Conflict(nil, "email already used")
	}
	cp := *teacher
	s.teachers[teacher.ID] = &cp
	return teacher, nil
}

// GetTeacher returns a stored teacher.
func (s *Store) GetTeacher(_ context.Context, id string) (*models.Teacher, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.teachers[id]
	if !ok {
		return nil, appErrors.NotFound("teacher")
	}
	cp := *t
	return &cp, nil
}

// UpdateTeacher replaces a stored teacher.
func (s *Store) UpdateTeacher(_ context.Context, teacher *models.Teacher) (*models.Teacher, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.teachers[teacher.ID]; !ok {
		return nil, appErrors.NotFound("teacher")
	}
	if s.emailTaken(teacher.Email, teacher.ID) {
		return nil, appErrors.Conflict(nil, "email already used")
	}
	cp := *teacher
	s.teachers[teacher.ID] = &cp
	return teacher, nil
}

// DeleteTeacher removes a teacher and its assignments.
func (s *Store) DeleteTeacher(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.teachers[id]; !ok {
		return appErrors.NotFound("teacher")
	}
	delete(s.teachers, id)
	s.assignments = filterAssignments(s.assignments, func(a models.TeacherAssignment) bool {
		return a.TeacherID != id
	})
	return nil
}

// CreateClass stores a class.
func (s *Store) CreateClass(_ context.Context, class *models.Class) (*models.Class, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if class.ClassCode != nil {
		for _, existing := range s.classes {
			if existing.ClassCode != nil && *existing.ClassCode == *class.ClassCode {
				return nil, appErrors.Conflict(nil, "class code already used")
			}
		}
	}
	cp := *class
	s.classes[class.ID] = &cp
	return class, nil
}

// GetClass returns a stored class.
func (s *Store) GetClass(_ context.Context, id string) (*models.Class, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.classes[id]
	if !ok {
		return nil, appErrors.NotFound("class")
	}
	cp := *c
	return &cp, nil
}

// UpdateClass replaces a stored class.
func (s *Store) UpdateClass(_ context.Context, class *models.Class) (*models.Class, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.classes[class.ID]; !ok {
		return nil, appErrors.NotFound("class")
	}
	cp := *class
	s.classes[class.ID] = &cp
	return class, nil
}

// DeleteClass removes a class and its dependent records.
func (s *Store) DeleteClass(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.classes[id]; !ok {
		return appErrors.NotFound("class")
	}
	delete(s.classes, id)
	s.enrollments = filterEnrollments(s.enrollments, func(e models.ClassEnrollment) bool {
		return e.ClassID != id
	})
	s.assignments = filterAssignments(s.assignments, func(a models.TeacherAssignment) bool {
		return a.ClassID != id
	})
	s.scores = filterScores(s.scores, func(sc models.Score) bool {
		return sc.ClassID != id
	})
	return nil
}

// AddStudentsToClass enrolls students with per-item outcomes.
func (s *Store) AddStudentsToClass(_ context.Context, classID string, studentIDs []string) (*models.BulkResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.classes[classID]; !ok {
		return nil, appErrors.NotFound("class")
	}

	result := &models.BulkResult{}
	now := time.Now().UTC()
	for _, studentID := range studentIDs {
		if _, ok := s.students[studentID]; !ok {
			result.Add(fmt.Errorf("student %s: not found", studentID))
			continue
		}
		if s.enrolled(studentID, classID) {
			result.Add(fmt.Errorf("student %s: already enrolled", studentID))
			continue
		}
		s.enrollments = append(s.enrollments, models.NewClassEnrollment(uuid.NewString(), studentID, classID, now))
		result.Add(nil)
	}
	return result, nil
}

func (s *Store) enrolled(studentID, classID string) bool {
	for _, e := range s.enrollments {
		if e.StudentID == studentID && e.ClassID == classID && e.IsActive {
			return true
		}
	}
	return false
}

// AddTeacherToClass records an assignment, rejecting duplicates.
func (s *Store) AddTeacherToClass(_ context.Context, classID, teacherID string, subject models.Subject) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.classes[classID]; !ok {
		return appErrors.NotFound("class")
	}
	if _, ok := s.teachers[teacherID]; !ok {
		return appErrors.NotFound("teacher")
	}
	for _, a := range s.assignments {
		if a.TeacherID == teacherID && a.ClassID == classID && a.Subject == subject && a.IsActive {
			return appErrors.Conflict(nil, "teacher already assigned for this subject")
		}
	}
	s.assignments = append(s.assignments, models.NewTeacherAssignment(uuid.NewString(), teacherID, classID, subject, time.Now().UTC()))
	return nil
}

// AddScores validates and stores assessment results.
func (s *Store) AddScores(_ context.Context, scores []models.Score) (*models.BulkResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	result := &models.BulkResult{}
	now := time.Now().UTC()
	for i := range scores {
		score := scores[i]
		if err := score.Normalize(); err != nil {
			result.Add(err)
			continue
		}
		if _, ok := s.students[score.StudentID]; !ok {
			result.Add(fmt.Errorf("student %s: not found", score.StudentID))
			continue
		}
		if _, ok := s.classes[score.ClassID]; !ok {
			result.Add(fmt.Errorf("class %s: not found", score.ClassID))
			continue
		}
		score.Stamp(uuid.NewString(), now)
		s.scores = append(s.scores, score)
		result.Add(nil)
	}
	return result, nil
}

// Bulk runs a batched mutation through the shared dispatcher.
func (s *Store) Bulk(ctx context.Context, op *models.BulkOperation) (*models.BulkResult, error) {
	return bulkops.Run(ctx, s, op)
}

func (s *Store) orderedClasses(classID string) ([]*models.Class, error) {
	if classID != "" {
		c, ok := s.classes[classID]
		if !ok {
			return nil, appErrors.NotFound("class")
		}
		return []*models.Class{c}, nil
	}
	out := make([]*models.Class, 0, len(s.classes))
	for _, c := range s.classes {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// StudentsPerClass counts active enrollments per class.
func (s *Store) StudentsPerClass(_ context.Context, classID string) (*models.AggregateResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	classes, err := s.orderedClasses(classID)
	if err != nil {
		return nil, err
	}
	results := make([]map[string]interface{}, 0, len(classes))
	for _, class := range classes {
		count := 0
		for _, e := range s.enrollments {
			if e.ClassID == class.ID && e.IsActive {
				count++
			}
		}
		results = append(results, map[string]interface{}{
			"class_id":      class.ID,
			"class_name":    class.Name,
			"student_count": count,
		})
	}
	return &models.AggregateResult{Results: results, Count: len(results)}, nil
}

// AverageScorePerClass averages scores per class.
func (s *Store) AverageScorePerClass(_ context.Context, classID string) (*models.AggregateResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	classes, err := s.orderedClasses(classID)
	if err != nil {
		return nil, err
	}
	results := make([]map[string]interface{}, 0, len(classes))
	for _, class := range classes {
		var sum float64
		count := 0
		for _, sc := range s.scores {
			if sc.ClassID == class.ID {
				sum += sc.Score
				count++
			}
		}
		avg := 0.0
		if count > 0 {
			avg = sum / float64(count)
		}
		results = append(results, map[string]interface{}{
			"class_id":      class.ID,
			"class_name":    class.Name,
			"average_score": avg,
			"total_scores":  count,
		})
	}
	return &models.AggregateResult{Results: results, Count: len(results)}, nil
}

// TeachersPerClass counts distinct active teachers per class.
func (s *Store) TeachersPerClass(_ context.Context, classID string) (*models.AggregateResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	classes, err := s.orderedClasses(classID)
	if err != nil {
		return nil, err
	}
	results := make([]map[string]interface{}, 0, len(classes))
	for _, class := range classes {
		seen := map[string]struct{}{}
		for _, a := range s.assignments {
			if a.ClassID == class.ID && a.IsActive {
				seen[a.TeacherID] = struct{}{}
			}
		}
		results = append(results, map[string]interface{}{
			"class_id":      class.ID,
			"class_name":    class.Name,
			"teacher_count": len(seen),
		})
	}
	return &models.AggregateResult{Results: results, Count: len(results)}, nil
}

// SubjectsPerClass lists distinct subjects taught per class.
func (s *Store) SubjectsPerClass(_ context.Context, classID string) (*models.AggregateResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	classes, err := s.orderedClasses(classID)
	if err != nil {
		return nil, err
	}
	results := make([]map[string]interface{}, 0, len(classes))
	for _, class := range classes {
		seen := map[string]struct{}{}
		for _, a := range s.assignments {
			if a.ClassID == class.ID && a.IsActive {
				seen[string(a.Subject)] = struct{}{}
			}
		}
		subjects := make([]string, 0, len(seen))
		for subject := range seen {
			subjects = append(subjects, subject)
		}
		sort.Strings(subjects)
		results = append(results, map[string]interface{}{
			"class_id":      class.ID,
			"class_name":    class.Name,
			"subjects":      subjects,
			"subject_count": len(subjects),
		})
	}
	return &models.AggregateResult{Results: results, Count: len(results)}, nil
}

// Aggregate groups records of the target storage by the whitelisted fields.
func (s *Store) Aggregate(_ context.Context, query *models.AggregateQuery) (*models.AggregateResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows := s.rowsFor(query.Storage())
	var filtered []map[string]interface{}
	for _, row := range rows {
		if matchesFilters(row, query.Filters) {
			filtered = append(filtered, row)
		}
	}

	if len(query.GroupBy) == 0 {
		results := []map[string]interface{}{{"count": len(filtered)}}
		return &models.AggregateResult{Results: results, Count: len(results)}, nil
	}

	groups := map[string]map[string]interface{}{}
	for _, row := range filtered {
		key := ""
		for _, field := range query.GroupBy {
			key += fmt.Sprintf("%v|", row[field])
		}
		group, ok := groups[key]
		if !ok {
			group = map[string]interface{}{"count": 0}
			for _, field := range query.GroupBy {
				group[field] = row[field]
			}
			groups[key] = group
		}
		group["count"] = group["count"].(int) + 1
	}

	results := make([]map[string]interface{}, 0, len(groups))
	for _, group := range groups {
		results = append(results, group)
	}
	sortBy := query.SortBy
	if sortBy == "" {
		sortBy = "count"
	}
	desc := query.SortOrder == "desc"
	sort.SliceStable(results, func(i, j int) bool {
		a, b := results[i][sortBy], results[j][sortBy]
		if desc {
			return lessValue(b, a)
		}
		return lessValue(a, b)
	})
	if query.Limit > 0 && len(results) > query.Limit {
		results = results[:query.Limit]
	}
	return &models.AggregateResult{Results: results, Count: len(results)}, nil
}

func (s *Store) rowsFor(storage string) []map[string]interface{} {
	var rows []map[string]interface{}
	switch storage {
	case "students":
		for _, st := range s.students {
			rows = append(rows, map[string]interface{}{
				"grade_level":  deref(st.GradeLevel),
				"is_active":    st.IsActive,
				"email":        st.Email,
				"student_code": derefString(st.StudentCode),
			})
		}
	case "teachers":
		for _, t := range s.teachers {
			rows = append(rows, map[string]interface{}{
				"department":    derefString(t.Department),
				"is_active":     t.IsActive,
				"email":         t.Email,
				"employee_code": derefString(t.EmployeeCode),
			})
		}
	case "classes":
		for _, c := range s.classes {
			rows = append(rows, map[string]interface{}{
				"grade_level":    deref(c.GradeLevel),
				"academic_year":  c.AcademicYear,
				"semester":       derefString(c.Semester),
				"gathering_type": string(c.GatheringType),
			})
		}
	case "scores":
		for _, sc := range s.scores {
			rows = append(rows, map[string]interface{}{
				"class_id":        sc.ClassID,
				"student_id":      sc.StudentID,
				"subject":         string(sc.Subject),
				"assessment_type": sc.AssessmentType,
			})
		}
	case "class_enrollments":
		for _, e := range s.enrollments {
			rows = append(rows, map[string]interface{}{
				"class_id":   e.ClassID,
				"student_id": e.StudentID,
				"is_active":  e.IsActive,
			})
		}
	case "teacher_assignments":
		for _, a := range s.assignments {
			rows = append(rows, map[string]interface{}{
				"class_id":   a.ClassID,
				"teacher_id": a.TeacherID,
				"subject":    string(a.Subject),
				"is_active":  a.IsActive,
			})
		}
	}
	return rows
}

// lessValue orders numbers numerically and everything else as strings, the
// same comparison the real adapters apply to grouped rows.
func lessValue(a, b interface{}) bool {
	af, aok := toFloat(a)
	bf, bok := toFloat(b)
	if aok && bok {
		return af < bf
	}
	return fmt.Sprintf("%v", a) < fmt.Sprintf("%v", b)
}

func toFloat(v interface{}) (float64, bool) {
	switch t := v.(type) {
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	case float64:
		return t, true
	}
	return 0, false
}

func matchesFilters(row map[string]interface{}, filters map[string]interface{}) bool {
	for field, want := range filters {
		if fmt.Sprintf("%v", row[field]) != fmt.Sprintf("%v", want) {
			return false
		}
	}
	return true
}

func deref(v *int) interface{} {
	if v == nil {
		return nil
	}
	return *v
}

func derefString(v *string) interface{} {
	if v == nil {
		return nil
	}
	return *v
}

func filterEnrollments(in []models.ClassEnrollment, keep func(models.ClassEnrollment) bool) []models.ClassEnrollment {
	out := in[:0]
	for _, e := range in {
		if keep(e) {
			out = append(out, e)
		}
	}
	return out
}

func filterAssignments(in []models.TeacherAssignment, keep func(models.TeacherAssignment) bool) []models.TeacherAssignment {
	out := in[:0]
	for _, a := range in {
		if keep(a) {
			out = append(out, a)
		}
	}
	return out
}

func filterScores(in []models.Score, keep func(models.Score) bool) []models.Score {
	out := in[:0]
	for _, sc := range in {
		if keep(sc) {
			out = append(out, sc)
		}
	}
	return out
}
