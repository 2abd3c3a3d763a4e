package provision

// Step is one stage of the provisioning state machine.
type Step string

const (
	StepIdentifier Step = "identifier"
	StepRole       Step = "role"
	StepDatabase   Step = "database"
	StepRegistry   Step = "registry"
	StepMigrations Step = "migrations"
	StepSeed       Step = "seed"
	StepToken      Step = "token"
)

// Record tracks one provisioning run so a failure can be compensated in
// reverse order of what was actually created.
type Record struct {
	RestaurantID string
	DBName       string
	DBUser       string

	CreatedSoFar []Step
}

func (r *Record) completed(s Step) {
	r.CreatedSoFar = append(r.CreatedSoFar, s)
}
