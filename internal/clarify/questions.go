package clarify

// initialQuestions is the first clarifying question for each detected category.
var initialQuestions = map[Category]string{
	CategoryPrinter:  "Is this about a receipt printer or a kitchen printer, and is it not printing at all or printing incorrectly?",
	CategoryPayment:  "What kind of payment issue is it — a duplicate charge, a declined card, or a batch that won't settle?",
	CategoryEmployee: "Is this about an employee's permissions, their clock-in status, or their PIN/login?",
	CategoryOrder:    "What's happening with the order — won't close, can't be voided, or showing the wrong total?",
	CategoryMenu:     "Is the problem a missing item, a wrong price, or modifier options not showing?",
	CategoryCash:     "Is the drawer over/short, a drop not recorded, or a reconcile that won't balance?",
	CategoryUnknown:  "Could you provide more detail about the issue? For example, which screen or station it happens on.",
}

// followUpQuestions narrow further on the second and later turns.
var followUpQuestions = map[Category]string{
	CategoryPrinter:  "Which station is the printer attached to, and does the issue affect every order or only some?",
	CategoryPayment:  "Do you have an order number or an approximate time for the transaction?",
	CategoryEmployee: "Which employee is affected, and what exactly do they see when they try?",
	CategoryOrder:    "Do you have the order number, and what error (if any) does the POS show?",
	CategoryMenu:     "Which item or category is affected, and did it change after a recent menu update?",
	CategoryCash:     "Which drawer and shift is this for, and how large is the discrepancy?",
	CategoryUnknown:  "Can you name the specific feature or error message involved?",
}

// Question returns the clarifying question to ask on the given turn (1-based).
func Question(c Category, turn int) string {
	questions := initialQuestions
	if turn > 1 {
		questions = followUpQuestions
	}
	if q, ok := questions[c]; ok {
		return q
	}
	return questions[CategoryUnknown]
}
