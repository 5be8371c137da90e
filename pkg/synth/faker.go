package synth

// Sample data backing the faker.* directives.

var fakerFirstNames = []string{
	"John", "Jane", "Bob", "Alice", "Charlie", "Diana", "Edward", "Fiona",
}

var fakerLastNames = []string{
	"Smith", "Doe", "Johnson", "Williams", "Brown", "Davis", "Miller", "Wilson",
}

var fakerFullNames = []string{
	"John Smith", "Jane Doe", "Bob Johnson", "Alice Williams", "Charlie Brown",
}

var fakerWords = []string{
	"alpha", "beta", "gamma", "delta", "epsilon", "zeta", "theta", "lambda", "sigma", "omega",
}

var fakerCompanies = []string{
	"Acme Corp", "Globex Inc", "Initech", "Umbrella Corp",
	"Stark Industries", "Wayne Enterprises", "Cyberdyne Systems", "Tyrell Corp",
}

var fakerDomains = []string{
	"example.com", "test.com", "mock.io", "demo.org",
}
