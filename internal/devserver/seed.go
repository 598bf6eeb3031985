package devserver

import "github.com/noah-isme/sma-adp-console/internal/schema"

// SeedFixtures loads a small data set covering every collection so a fresh
// dev server is browsable immediately.
func (s *Server) SeedFixtures() {
	students := []schema.Entity{
		{"nis": "2024001", "full_name": "Ahmad Fauzi", "gender": "M", "birth_date": "2008-03-14", "class_name": "X-1", "address": "Jl. Merdeka 12", "phone": "0812000001", "active": true},
		{"nis": "2024002", "full_name": "Siti Rahma", "gender": "F", "birth_date": "2008-07-02", "class_name": "X-1", "address": "Jl. Kenanga 5", "phone": "0812000002", "active": true},
		{"nis": "2024003", "full_name": "Budi Santoso", "gender": "M", "birth_date": "2007-11-21", "class_name": "XI-2", "address": "Jl. Melati 3", "phone": "0812000003", "active": false},
	}
	for _, e := range students {
		s.store.Create("students", e)
	}

	teachers := []schema.Entity{
		{"nip": "19800101", "full_name": "Dewi Lestari", "gender": "F", "subject_name": "Matematika", "phone": "0813000001", "email": "dewi@sma.sch.id", "active": true},
		{"nip": "19750615", "full_name": "Rudi Hartono", "gender": "M", "subject_name": "Fisika", "phone": "0813000002", "email": "rudi@sma.sch.id", "active": true},
	}
	for _, e := range teachers {
		s.store.Create("teachers", e)
	}

	subjects := []schema.Entity{
		{"code": "MTK", "name": "Matematika", "credit_hours": float64(4), "description": "Wajib"},
		{"code": "FIS", "name": "Fisika", "credit_hours": float64(3), "description": "IPA"},
	}
	for _, e := range subjects {
		s.store.Create("subjects", e)
	}

	classrooms := []schema.Entity{
		{"name": "X-1", "grade": "X", "capacity": float64(32), "homeroom_teacher": "Dewi Lestari"},
		{"name": "XI-2", "grade": "XI", "capacity": float64(30), "homeroom_teacher": "Rudi Hartono"},
	}
	for _, e := range classrooms {
		s.store.Create("classrooms", e)
	}

	users := []schema.Entity{
		{"email": "admin@sma.sch.id", "full_name": "Administrator", "role": "ADMIN", "active": true},
	}
	for _, e := range users {
		s.store.Create("users", e)
	}

	employees := []schema.Entity{
		{"employee_no": "EMP-01", "full_name": "Andi Wijaya", "position": "Staf TU", "department": "Administrasi", "phone": "0814000001", "active": true},
	}
	for _, e := range employees {
		s.store.Create("employees", e)
	}

	tasks := []schema.Entity{
		{"title": "Rekap nilai semester", "assigned_to": "Dewi Lestari", "status": "IN_PROGRESS", "progress": float64(60), "start_date": "2026-08-01"},
		{"title": "Input data siswa baru", "assigned_to": "Andi Wijaya", "status": "DONE", "progress": float64(100), "start_date": "2026-07-10", "completed_date": "2026-07-20"},
	}
	for _, e := range tasks {
		s.store.Create("tasks", e)
	}

	shifts := []schema.Entity{
		{"employee_name": "Andi Wijaya", "date": "2026-08-25", "clock_in": "07:30", "clock_out": "17:15", "scheduled_end": "16:00", "worked_hours": 9.75, "overtime_hours": 1.25},
	}
	for _, e := range shifts {
		s.store.Create("shifts", e)
	}
}
