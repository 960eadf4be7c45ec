package pgstore

// schema is applied on every Connect. Statements are idempotent so repeated
// startups against the same database are safe.
const schema = `
CREATE TABLE IF NOT EXISTS persons (
    id UUID PRIMARY KEY,
    first_name TEXT NOT NULL,
    last_name TEXT NOT NULL,
    email TEXT NOT NULL UNIQUE,
    phone TEXT,
    date_of_birth TIMESTAMPTZ,
    address TEXT,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS students (
    id UUID PRIMARY KEY,
    first_name TEXT NOT NULL,
    last_name TEXT NOT NULL,
    email TEXT NOT NULL UNIQUE,
    phone TEXT,
    date_of_birth TIMESTAMPTZ,
    address TEXT,
    student_code TEXT UNIQUE,
    grade_level INTEGER CHECK (grade_level BETWEEN 1 AND 12),
    enrollment_date TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    is_active BOOLEAN NOT NULL DEFAULT TRUE,
    guardian_contact TEXT,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS teachers (
    id UUID PRIMARY KEY,
    first_name TEXT NOT NULL,
    last_name TEXT NOT NULL,
    email TEXT NOT NULL UNIQUE,
    phone TEXT,
    date_of_birth TIMESTAMPTZ,
    address TEXT,
    employee_code TEXT UNIQUE,
    subjects TEXT[] NOT NULL DEFAULT '{}',
    hire_date TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    is_active BOOLEAN NOT NULL DEFAULT TRUE,
    department TEXT,
    qualification TEXT,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS classes (
    id UUID PRIMARY KEY,
    name TEXT NOT NULL,
    description TEXT,
    gathering_type TEXT NOT NULL DEFAULT 'class',
    capacity INTEGER CHECK (capacity >= 1),
    location TEXT,
    class_code TEXT UNIQUE,
    grade_level INTEGER CHECK (grade_level BETWEEN 1 AND 12),
    academic_year TEXT NOT NULL,
    semester TEXT,
    schedule JSONB,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS class_enrollments (
    id UUID PRIMARY KEY,
    student_id UUID NOT NULL REFERENCES students(id) ON DELETE CASCADE,
    class_id UUID NOT NULL REFERENCES classes(id) ON DELETE CASCADE,
    enrollment_date TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    is_active BOOLEAN NOT NULL DEFAULT TRUE,
    UNIQUE (student_id, class_id)
);

CREATE TABLE IF NOT EXISTS teacher_assignments (
    id UUID PRIMARY KEY,
    teacher_id UUID NOT NULL REFERENCES teachers(id) ON DELETE CASCADE,
    class_id UUID NOT NULL REFERENCES classes(id) ON DELETE CASCADE,
    subject TEXT NOT NULL,
    assignment_date TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    is_active BOOLEAN NOT NULL DEFAULT TRUE,
    UNIQUE (teacher_id, class_id, subject)
);

CREATE TABLE IF NOT EXISTS scores (
    id UUID PRIMARY KEY,
    student_id UUID NOT NULL REFERENCES students(id) ON DELETE CASCADE,
    class_id UUID NOT NULL REFERENCES classes(id) ON DELETE CASCADE,
    subject TEXT NOT NULL,
    score NUMERIC(5,2) NOT NULL CHECK (score BETWEEN 0 AND 100),
    max_score NUMERIC(5,2) NOT NULL DEFAULT 100 CHECK (max_score > 0),
    assessment_type TEXT NOT NULL,
    assessment_date TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    teacher_id UUID REFERENCES teachers(id) ON DELETE SET NULL,
    comments TEXT
);

CREATE INDEX IF NOT EXISTS idx_enrollments_class ON class_enrollments (class_id);
CREATE INDEX IF NOT EXISTS idx_assignments_class ON teacher_assignments (class_id);
CREATE INDEX IF NOT EXISTS idx_scores_class ON scores (class_id);
CREATE INDEX IF NOT EXISTS idx_scores_student ON scores (student_id);
`
