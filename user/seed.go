package user

// SampleUsers mirrors the people whose expenses are in the demo data, plus
// two managers and one registration still waiting for approval.
func SampleUsers() []User {
	return []User{
		{ID: 1, EmployeeCode: "EMP001", Name: "John Smith", Email: "john.smith@example.com", Designation: "Engineer", JobLocation: "mumbai", Role: RoleUser, Status: StatusActive, Approval: ApprovalApproved},
		{ID: 2, EmployeeCode: "EMP002", Name: "Sarah Johnson", Email: "sarah.j@example.com", Designation: "Analyst", JobLocation: "london", Role: RoleUser, Status: StatusActive, Approval: ApprovalApproved},
		{ID: 3, EmployeeCode: "EMP003", Name: "Michael Chen", Email: "mchen@example.com", Designation: "Team Lead", JobLocation: "singapore", Role: RoleManager, Status: StatusActive, Approval: ApprovalApproved},
		{ID: 4, EmployeeCode: "EMP004", Name: "Emily Davis", Email: "emily.d@example.com", Designation: "Consultant", JobLocation: "new-york", Role: RoleUser, Status: StatusInactive, Approval: ApprovalApproved},
		{ID: 5, EmployeeCode: "EMP005", Name: "David Wilson", Email: "dwilson@example.com", Designation: "Project Manager", JobLocation: "tokyo", Role: RoleManager, Status: StatusActive, Approval: ApprovalRejected},
		{ID: 6, EmployeeCode: "EMP006", Name: "Lisa Anderson", Email: "l.anderson@example.com", Designation: "Designer", JobLocation: "mumbai", Role: RoleUser, Status: StatusActive, Approval: ApprovalApproved},
		{ID: 7, EmployeeCode: "EMP007", Name: "Priya Nair", Email: "priya.n@example.com", Designation: "Engineer", JobLocation: "mumbai", Role: RoleUser, Status: StatusActive, Approval: ApprovalPending},
	}
}
