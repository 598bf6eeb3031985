package schema

// Catalog returns the schemas for every management screen the console
// exposes. Field order matches column order in the rendered table.
func Catalog() []Schema {
	return []Schema{
		Student(),
		Teacher(),
		Subject(),
		Classroom(),
		User(),
		Employee(),
		Task(),
		Shift(),
	}
}

// Student describes learners keyed by their NIS number.
func Student() Schema {
	return Schema{
		Name:         "students",
		EndpointBase: "/students",
		Fields: []Field{
			{Key: "nis", Label: "NIS", Kind: KindText, Required: true, Searchable: true},
			{Key: "full_name", Label: "Full Name", Kind: KindText, Required: true, Searchable: true},
			{Key: "gender", Label: "Gender", Kind: KindSelect, Required: true, Options: []string{"M", "F"}, Filterable: true},
			{Key: "birth_date", Label: "Birth Date", Kind: KindDate, Required: true},
			{Key: "class_name", Label: "Class", Kind: KindSelect, Filterable: true},
			{Key: "address", Label: "Address", Kind: KindTextarea},
			{Key: "phone", Label: "Phone", Kind: KindText, Searchable: true},
			{Key: "active", Label: "Active", Kind: KindBoolean},
		},
	}
}

// Teacher describes teaching staff keyed by their NIP number.
func Teacher() Schema {
	return Schema{
		Name:         "teachers",
		EndpointBase: "/teachers",
		Fields: []Field{
			{Key: "nip", Label: "NIP", Kind: KindText, Required: true, Searchable: true},
			{Key: "full_name", Label: "Full Name", Kind: KindText, Required: true, Searchable: true},
			{Key: "gender", Label: "Gender", Kind: KindSelect, Required: true, Options: []string{"M", "F"}, Filterable: true},
			{Key: "subject_name", Label: "Subject", Kind: KindSelect, Filterable: true},
			{Key: "phone", Label: "Phone", Kind: KindText, Searchable: true},
			{Key: "email", Label: "Email", Kind: KindText, Searchable: true},
			{Key: "active", Label: "Active", Kind: KindBoolean},
		},
	}
}

// Subject describes taught subjects.
func Subject() Schema {
	return Schema{
		Name:         "subjects",
		EndpointBase: "/subjects",
		Fields: []Field{
			{Key: "code", Label: "Code", Kind: KindText, Required: true, Searchable: true},
			{Key: "name", Label: "Name", Kind: KindText, Required: true, Searchable: true},
			{Key: "credit_hours", Label: "Credit Hours", Kind: KindNumber, Required: true, Min: floatPtr(1), Max: floatPtr(10)},
			{Key: "description", Label: "Description", Kind: KindTextarea},
		},
	}
}

// Classroom describes physical classes and their homeroom assignment.
func Classroom() Schema {
	return Schema{
		Name:         "classrooms",
		EndpointBase: "/classrooms",
		Fields: []Field{
			{Key: "name", Label: "Name", Kind: KindText, Required: true, Searchable: true},
			{Key: "grade", Label: "Grade", Kind: KindSelect, Required: true, Options: []string{"X", "XI", "XII"}, Filterable: true},
			{Key: "capacity", Label: "Capacity", Kind: KindNumber, Required: true, Min: floatPtr(1), Max: floatPtr(50)},
			{Key: "homeroom_teacher", Label: "Homeroom Teacher", Kind: KindText, Searchable: true},
		},
	}
}

// User describes application accounts.
func User() Schema {
	return Schema{
		Name:         "users",
		EndpointBase: "/users",
		Fields: []Field{
			{Key: "email", Label: "Email", Kind: KindText, Required: true, Searchable: true},
			{Key: "full_name", Label: "Full Name", Kind: KindText, Required: true, Searchable: true},
			{Key: "role", Label: "Role", Kind: KindSelect, Required: true, Options: []string{"SUPERADMIN", "ADMIN", "TEACHER", "STUDENT"}, Filterable: true},
			{Key: "active", Label: "Active", Kind: KindBoolean},
		},
	}
}

// Employee describes non-teaching staff.
func Employee() Schema {
	return Schema{
		Name:         "employees",
		EndpointBase: "/employees",
		Fields: []Field{
			{Key: "employee_no", Label: "Employee No", Kind: KindText, Required: true, Searchable: true},
			{Key: "full_name", Label: "Full Name", Kind: KindText, Required: true, Searchable: true},
			{Key: "position", Label: "Position", Kind: KindText, Required: true, Searchable: true},
			{Key: "department", Label: "Department", Kind: KindSelect, Filterable: true},
			{Key: "phone", Label: "Phone", Kind: KindText},
			{Key: "active", Label: "Active", Kind: KindBoolean},
		},
	}
}

// Task describes work items with progress tracking.
func Task() Schema {
	return Schema{
		Name:         "tasks",
		EndpointBase: "/tasks",
		Fields: []Field{
			{Key: "title", Label: "Title", Kind: KindText, Required: true, Searchable: true},
			{Key: "description", Label: "Description", Kind: KindTextarea},
			{Key: "assigned_to", Label: "Assigned To", Kind: KindText, Searchable: true},
			{Key: "status", Label: "Status", Kind: KindSelect, Options: []string{"OPEN", "IN_PROGRESS", "DONE"}, Filterable: true},
			{Key: "progress", Label: "Progress", Kind: KindNumber, Required: true, Min: floatPtr(0), Max: floatPtr(100)},
			{Key: "start_date", Label: "Start Date", Kind: KindDate, Required: true},
			{Key: "completed_date", Label: "Completed", Kind: KindDate},
		},
	}
}

// Shift describes a work-hours record for an employee.
func Shift() Schema {
	return Schema{
		Name:         "shifts",
		EndpointBase: "/shifts",
		Fields: []Field{
			{Key: "employee_name", Label: "Employee", Kind: KindText, Required: true, Searchable: true},
			{Key: "date", Label: "Date", Kind: KindDate, Required: true},
			{Key: "clock_in", Label: "Clock In", Kind: KindText, Required: true},
			{Key: "clock_out", Label: "Clock Out", Kind: KindText},
			{Key: "scheduled_end", Label: "Scheduled End", Kind: KindText, Required: true},
			{Key: "worked_hours", Label: "Worked", Kind: KindNumber, OmitZero: true},
			{Key: "overtime_hours", Label: "Overtime", Kind: KindNumber, OmitZero: true},
		},
	}
}
