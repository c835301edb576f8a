package expense

import (
	"time"

	"github.com/shopspring/decimal"
)

func day(s string) time.Time {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}

func approved(amount int64) Decision {
	return Approved{Amount: decimal.NewFromInt(amount)}
}

// SampleGroups is the demo data loaded when no database is configured.
func SampleGroups() []UserExpenseGroup {
	return []UserExpenseGroup{
		{
			EmployeeCode: "EMP001",
			Name:         "John Smith",
			Email:        "john.smith@example.com",
			Expenses: []Expense{
				{ID: 1, Category: "Travel", RequestedAmount: decimal.NewFromInt(5000), Date: day("2024-01-15"), Description: "Client meeting in Mumbai", Decision: approved(4500)},
				{ID: 2, Category: "Food", RequestedAmount: decimal.NewFromInt(1200), Date: day("2024-01-20"), Description: "Team lunch", Decision: approved(1200)},
				{ID: 3, Category: "Office Supplies", RequestedAmount: decimal.NewFromInt(800), Date: day("2024-01-22"), Description: "Stationery items", Decision: Pending{}},
			},
		},
		{
			EmployeeCode: "EMP002",
			Name:         "Sarah Johnson",
			Email:        "sarah.j@example.com",
			Expenses: []Expense{
				{ID: 4, Category: "Travel", RequestedAmount: decimal.NewFromInt(3000), Date: day("2024-01-18"), Description: "Conference attendance", Decision: approved(3000)},
				{ID: 5, Category: "Software", RequestedAmount: decimal.NewFromInt(2500), Date: day("2024-01-25"), Description: "Annual software license", Decision: Rejected{}},
			},
		},
		{
			EmployeeCode: "EMP004",
			Name:         "Emily Davis",
			Email:        "emily.d@example.com",
			Expenses: []Expense{
				{ID: 6, Category: "Training", RequestedAmount: decimal.NewFromInt(10000), Date: day("2024-01-10"), Description: "Professional certification course", Decision: approved(8000)},
				{ID: 7, Category: "Travel", RequestedAmount: decimal.NewFromInt(4000), Date: day("2024-01-28"), Description: "Business trip", Decision: Pending{}},
				{ID: 8, Category: "Food", RequestedAmount: decimal.NewFromInt(600), Date: day("2024-01-29"), Description: "Client dinner", Decision: Pending{}},
			},
		},
		{
			EmployeeCode: "EMP006",
			Name:         "Lisa Anderson",
			Email:        "l.anderson@example.com",
			Expenses: []Expense{
				{ID: 9, Category: "Office Supplies", RequestedAmount: decimal.NewFromInt(1500), Date: day("2024-01-12"), Description: "Desk equipment", Decision: approved(1500)},
			},
		},
	}
}
