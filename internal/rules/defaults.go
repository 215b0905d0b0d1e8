package rules

// DefaultGroups returns the built-in rule groups in priority order.
// A rules file replaces them entirely.
func DefaultGroups() []Group {
	return []Group{
		{Name: "income", Rules: []Rule{
			{`Acme CO.*Payroll`, "Income: Salary: Acme Co"},
			{`Interest.*Paid`, "Income: Interest: Bank"},
		}},
		{Name: "subscriptions", Rules: []Rule{
			{`Alamo Drafthouse (Entertainment|Shopping)`, "Subscription: Video: Alamo Drafthouse"},
			{`Amazon Prime`, "Subscription: Video: Amazon Prime Video"},
			{`Netflix`, "Subscription: Video: Netflix"},
			{`Mint.*Mobile`, "Subscription: Utility: Mint Mobile"},
			{`Peloton`, "Subscription: Health: Peloton"},
		}},
		{Name: "utilities", Rules: []Rule{
			{`Check.*Passportservices`, "Utilities: General: Passport Renewal"},
			{`Google.*Fiber`, "Utilities: Internet: Google Fiber"},
			{`City.*Of.*Austin.*Utl`, "Utilities: Power: City of Austin"},
		}},
		{Name: "health", Rules: []Rule{
			{`Eye.*Clinic`, "Health: Medical: Eye Clinic"},
			{`Vca.Animal.Hosp`, "Health: Vet: Vca Animal Hospital"},
		}},
		{Name: "fuel", Rules: []Rule{
			{`7.*Eleven.*Gas`, "Fuel: Gas: 7-11"},
			{`Buc-Ee.*Gas`, "Fuel: Gas: Buc-Ee"},
			{`Tesla.*Supercharger`, "Fuel: Electric: Tesla"},
		}},
		{Name: "entertainment", Rules: []Rule{
			{`Alamo.*(Rest|Retail)`, "Entertainment: Activity: Alamo Drafthouse, Misc"},
			{`Prime.*Video`, "Entertainment: Video: Prime Video"},
		}},
		{Name: "restaurant", Rules: []Rule{
			{`Regex_For_Some_Restaurant`, "Restaurant: Just: Ok: Restaurant X"},
			{`Super.*Duper.*Cafe.*Food`, "Restaurant: Super: Good: Super Duper Cafe"},
		}},
		{Name: "kiosk", Rules: []Rule{
			{`Temp.*Kiosk`, "Kiosk: Snacks, Misc"},
		}},
		{Name: "automotive", Rules: []Rule{
			{`Autowash`, "Automotive: Wash: Car Wash"},
			{`Aaa.*Acg.*Sw`, "Automotive: Maintenance: AAA"},
		}},
		{Name: "stores", Rules: []Rule{
			{`Amazon.*Mktp`, "Shopping: Retail: Amazon"},
			{`The.Home.Depot`, "Shopping: Home: The Home Depot"},
			{`H-E-B|\bHeb\b`, "Shopping: Groceries: HEB"},
		}},
		{Name: "services", Rules: []Rule{
			{`Birds.Barber`, "Service: Haircut: Birds Barbershop"},
			{`Rover`, "Service: Pet: Rover"},
		}},
		{Name: "mortgage", Rules: []Rule{
			{`Mortgage.*Holdings.*Llc`, "Mortgage: Misc"},
		}},
		{Name: "insurance", Rules: []Rule{
			{`Claim.*\d.*Health`, "Insurance: Claim"},
			{`Dogs.Are.Good.Ins`, "Insurance: Pet"},
		}},
		{Name: "charity", Rules: []Rule{
			{`Unduemedicaldebt`, "Charity: Undue Medical Debt"},
			{`Ripmedicaldebt`, "Charity: Undue Medical Debt"},
		}},
		{Name: "transfers", Rules: []Rule{
			{`Atm.*Cach.*Deposit`, "Transfers: Atm: Deposit"},
			{`Vacation.*Savings`, "Transfers: Vacation: Savings"},
			{`Check.*\D`, "Transfers: Check: Payment"},
		}},
		{Name: "travel", Rules: []Rule{
			{`Airbnb`, "Travel: Lodging: Airbnb"},
			{`Alaska.*Air`, "Travel: Transport: Alaska Air"},
		}},
		{Name: "tax", Rules: []Rule{
			{`Irs.*Usatax`, "Tax: IRS"},
		}},
		{Name: "contractor", Rules: []Rule{
			{`Wacky.*Win`, "Contractor: Wacky Windows"},
			{`Make.*It.*Work.*Hvac`, "Contractor: Make It Work HVAC"},
		}},
	}
}
