package esstore

// Index mappings keyed by storage name. Identifier and code fields are
// keywords so term queries match exactly; names stay text with a keyword
// sub-field for sorting.

const personProperties = `
      "id": {"type": "keyword"},
      "first_name": {"type": "text", "fields": {"raw": {"type": "keyword"}}},
      "last_name": {"type": "text", "fields": {"raw": {"type": "keyword"}}},
      "email": {"type": "keyword"},
      "phone": {"type": "keyword"},
      "date_of_birth": {"type": "date"},
      "address": {"type": "text"},
      "created_at": {"type": "date"},
      "updated_at": {"type": "date"}`

var indexMappings = map[string]string{
	"persons": `{
  "mappings": {
    "properties": {` + personProperties + `
    }
  }
}`,
	"students": `{
  "mappings": {
    "properties": {` + personProperties + `,
      "student_code": {"type": "keyword"},
      "grade_level": {"type": "integer"},
      "enrollment_date": {"type": "date"},
      "is_active": {"type": "boolean"},
      "guardian_contact": {"type": "keyword"}
    }
  }
}`,
	"teachers": `{
  "mappings": {
    "properties": {` + personProperties + `,
      "employee_code": {"type": "keyword"},
      "subjects": {"type": "keyword"},
      "hire_date": {"type": "date"},
      "is_active": {"type": "boolean"},
      "department": {"type": "keyword"},
      "qualification": {"type": "text"}
    }
  }
}`,
	"classes": `{
  "mappings": {
    "properties": {
      "id": {"type": "keyword"},
      "name": {"type": "text", "fields": {"raw": {"type": "keyword"}}},
      "description": {"type": "text"},
      "gathering_type": {"type": "keyword"},
      "capacity": {"type": "integer"},
      "location": {"type": "keyword"},
      "class_code": {"type": "keyword"},
      "grade_level": {"type": "integer"},
      "academic_year": {"type": "keyword"},
      "semester": {"type": "keyword"},
      "schedule": {"type": "object", "enabled": false},
      "created_at": {"type": "date"},
      "updated_at": {"type": "date"}
    }
  }
}`,
	"class_enrollments": `{
  "mappings": {
    "properties": {
      "id": {"type": "keyword"},
      "student_id": {"type": "keyword"},
      "class_id": {"type": "keyword"},
      "enrollment_date": {"type": "date"},
      "is_active": {"type": "boolean"}
    }
  }
}`,
	"teacher_assignments": `{
  "mappings": {
    "properties": {
      "id": {"type": "keyword"},
      "teacher_id": {"type": "keyword"},
      "class_id": {"type": "keyword"},
      "subject": {"type": "keyword"},
      "assignment_date": {"type": "date"},
      "is_active": {"type": "boolean"}
    }
  }
}`,
	"scores": `{
  "mappings": {
    "properties": {
      "id": {"type": "keyword"},
      "student_id": {"type": "keyword"},
      "class_id": {"type": "keyword"},
      "subject": {"type": "keyword"},
      "score": {"type": "float"},
      "max_score": {"type": "float"},
      "assessment_type": {"type": "keyword"},
      "assessment_date": {"type": "date"},
      "teacher_id": {"type": "keyword"},
      "comments": {"type": "text"}
    }
  }
}`,
}
