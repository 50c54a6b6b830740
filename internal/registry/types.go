package registry

// Descriptor describes one starter template.
type Descriptor struct {
	Key             string   `yaml:"key"`
	Name            string   `yaml:"name"` // default destination folder, e.g. "knex-starter"
	Label           string   `yaml:"label"`
	Description     string   `yaml:"description"`
	Main            string   `yaml:"main"`
	Port            int      `yaml:"port"`
	Typed           bool     `yaml:"typed"` // TypeScript template, ships a tsconfig.json
	Scripts         Pairs    `yaml:"scripts"`
	Dependencies    Pairs    `yaml:"dependencies"`
	DevDependencies Pairs    `yaml:"devDependencies"`
	Commands        Commands `yaml:"commands"`
	Readme          Readme   `yaml:"readme"`
}

// Commands are the repository-level commands that start or seed a template.
type Commands struct {
	Run  CommandSpec `yaml:"run"`
	Seed CommandSpec `yaml:"seed"`
}

// CommandSpec is a program followed by its ordered arguments.
type CommandSpec []string

// Program returns the executable name, or "" when none is set.
func (c CommandSpec) Program() string {
	if len(c) == 0 {
		return ""
	}
	return c[0]
}

// Args returns the arguments after the program.
func (c CommandSpec) Args() []string {
	if len(c) < 2 {
		return nil
	}
	return append([]string(nil), c[1:]...)
}

// Readme is the per-template profile used to render README.md.
type Readme struct {
	QuickStart []Step `yaml:"quickstart"`
	Structure  string `yaml:"structure"`
	Env        string `yaml:"env"`
}

// Step is one numbered quick start instruction.
type Step struct {
	Title   string `yaml:"title"`
	Command string `yaml:"command"`
}
