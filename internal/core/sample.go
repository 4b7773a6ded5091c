package core

// SampleExpenses returns the demo data set shown on first launch.
func SampleExpenses() []Expense {
	return []Expense{
		{ID: "1", Date: NewDate(2024, 7, 15), Category: Food, Amount: 25.5, Description: "Lunch with colleagues"},
		{ID: "2", Date: NewDate(2024, 7, 15), Category: Transport, Amount: 50, Description: "Gasoline for car"},
		{ID: "3", Date: NewDate(2024, 7, 14), Category: Shopping, Amount: 120.75, Description: "New shoes"},
		{ID: "4", Date: NewDate(2024, 7, 13), Category: Food, Amount: 8.99, Description: "Coffee and pastry"},
		{ID: "5", Date: NewDate(2024, 7, 12), Category: Utilities, Amount: 85, Description: "Electricity bill"},
		{ID: "6", Date: NewDate(2024, 7, 11), Category: Entertainment, Amount: 45, Description: "Movie tickets for two"},
		{ID: "7", Date: NewDate(2024, 6, 28), Category: Travel, Amount: 450, Description: "Flight for vacation"},
		{ID: "8", Date: NewDate(2024, 6, 25), Category: Health, Amount: 75, Description: "Pharmacy"},
	}
}
