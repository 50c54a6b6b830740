package setup

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/ormstarter/ormstarter/internal/platform"
	"github.com/ormstarter/ormstarter/internal/prompt"
	"github.com/ormstarter/ormstarter/internal/registry"
)

// EnvFileName is the environment file created at the templates root.
const EnvFileName = ".env"

// Environment keys managed by setup.
const (
	KeyDBHost      = "DB_HOST"
	KeyDBPort      = "DB_PORT"
	KeyDBUser      = "DB_USER"
	KeyDBPassword  = "DB_PASSWORD"
	KeyDBName      = "DB_NAME"
	KeyMongoURI    = "MONGO_URI"
	KeyDatabaseURL = "DATABASE_URL"
)

// escapedChars are rewritten by godotenv inside double-quoted values.
const escapedChars = "\"\\$!`"

// ErrInvalidAnswer is returned for a database setting that cannot be used.
var ErrInvalidAnswer = errors.New("invalid setup answer")

const defaultEnv = `# Database Configuration
DB_HOST=localhost
DB_PORT=3306
DB_USER=root
DB_PASSWORD=
DB_NAME=orm_templates_db

# MongoDB
MONGO_URI=mongodb://localhost:27017/orm_templates_db

# Prisma
DATABASE_URL="mysql://root:@localhost:3306/orm_templates_db"

# Application
NODE_ENV=development
PORT=3000

# JWT (if needed)
JWT_SECRET=your-secret-key-here
`

// Answers are the database settings collected from the user.
type Answers struct {
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	MongoURI   string
}

// DefaultAnswers returns the settings used when the user accepts every default.
func DefaultAnswers() Answers {
	return Answers{
		DBHost:   "localhost",
		DBPort:   "3306",
		DBUser:   "root",
		DBName:   "orm_templates_db",
		MongoURI: "mongodb://localhost:27017/orm_templates_db",
	}
}

// FromEnv overlays non-empty values from an existing env map onto a.
func (a Answers) FromEnv(env map[string]string) Answers {
	pick := func(dst *string, key string) {
		if v := env[key]; v != "" {
			*dst = v
		}
	}
	pick(&a.DBHost, KeyDBHost)
	pick(&a.DBPort, KeyDBPort)
	pick(&a.DBUser, KeyDBUser)
	pick(&a.DBPassword, KeyDBPassword)
	pick(&a.DBName, KeyDBName)
	pick(&a.MongoURI, KeyMongoURI)
	return a
}

// Validate checks that the answers form a usable connection.
func (a Answers) Validate() error {
	if strings.TrimSpace(a.DBHost) == "" {
		return fmt.Errorf("%w: database host is empty", ErrInvalidAnswer)
	}
	port, err := strconv.Atoi(a.DBPort)
	if err != nil || port < 1 || port > 65535 {
		return fmt.Errorf("%w: database port %q", ErrInvalidAnswer, a.DBPort)
	}
	if strings.TrimSpace(a.DBUser) == "" {
		return fmt.Errorf("%w: database user is empty", ErrInvalidAnswer)
	}
	if strings.TrimSpace(a.DBName) == "" {
		return fmt.Errorf("%w: database name is empty", ErrInvalidAnswer)
	}
	for _, v := range []string{a.DBHost, a.DBUser, a.DBPassword, a.DBName, a.MongoURI} {
		if strings.ContainsAny(v, "\n\r") {
			return fmt.Errorf("%w: values cannot span lines", ErrInvalidAnswer)
		}
		if strings.ContainsAny(v, escapedChars) && strings.Contains(v, "'") {
			return fmt.Errorf("%w: a value cannot contain ' together with any of %s", ErrInvalidAnswer, escapedChars)
		}
		if strings.HasSuffix(v, "\\") {
			return fmt.Errorf("%w: a value cannot end with a backslash", ErrInvalidAnswer)
		}
	}
	if u, err := url.Parse(a.MongoURI); err != nil || u.Scheme == "" {
		return fmt.Errorf("%w: MongoDB URI %q", ErrInvalidAnswer, a.MongoURI)
	}
	return nil
}

// DatabaseURL derives the MySQL connection URL used by Prisma.
func (a Answers) DatabaseURL() string {
	u := url.URL{
		Scheme: "mysql",
		User:   url.UserPassword(a.DBUser, a.DBPassword),
		Host:   net.JoinHostPort(a.DBHost, a.DBPort),
		Path:   "/" + a.DBName,
	}
	return u.String()
}

// Values returns the env entries setup writes, in file order.
func (a Answers) Values() []registry.Pair {
	return []registry.Pair{
		{Key: KeyDBHost, Value: a.DBHost},
		{Key: KeyDBPort, Value: a.DBPort},
		{Key: KeyDBUser, Value: a.DBUser},
		{Key: KeyDBPassword, Value: a.DBPassword},
		{Key: KeyDBName, Value: a.DBName},
		{Key: KeyMongoURI, Value: a.MongoURI},
		{Key: KeyDatabaseURL, Value: a.DatabaseURL()},
	}
}

// Ask collects answers interactively, offering defaults for every field
// except the password.
func Ask(ui prompt.UI, defaults Answers) (Answers, error) {
	var a Answers
	var err error
	for _, q := range []struct {
		label string
		def   string
		dst   *string
	}{
		{"Database host", defaults.DBHost, &a.DBHost},
		{"Database port", defaults.DBPort, &a.DBPort},
		{"Database username", defaults.DBUser, &a.DBUser},
	} {
		if *q.dst, err = ui.Input(q.label, q.def); err != nil {
			return a, err
		}
	}
	if a.DBPassword, err = ui.Password("Database password"); err != nil {
		return a, err
	}
	if a.DBName, err = ui.Input("Database name", defaults.DBName); err != nil {
		return a, err
	}
	if a.MongoURI, err = ui.Input("MongoDB URI", defaults.MongoURI); err != nil {
		return a, err
	}
	return a, a.Validate()
}

// EnvPath returns <root>/.env.
func EnvPath(root string) string {
	return filepath.Join(root, EnvFileName)
}

// EnsureEnv creates <root>/.env if it is missing, copying .env.example when
// present and writing the built-in defaults otherwise. It reports whether
// the file was created and where its content came from.
func EnsureEnv(root string) (created bool, source string, err error) {
	path := EnvPath(root)
	if _, err := os.Stat(path); err == nil {
		return false, "", nil
	}

	data := []byte(defaultEnv)
	source = "defaults"
	example := registry.EnvTemplatePath(root)
	if b, err := os.ReadFile(example); err == nil {
		data = b
		source = registry.EnvTemplateName
	}

	if err := os.WriteFile(path, data, platform.OwnerOnly); err != nil {
		return false, "", fmt.Errorf("writing %s: %w", path, err)
	}
	return true, source, nil
}

// ReadEnv parses an env file.
func ReadEnv(path string) (map[string]string, error) {
	env, err := godotenv.Read(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return env, nil
}

// UpdateEnv rewrites the managed keys in the env file at path. Existing
// lines are replaced in place so comments and unrelated keys survive;
// missing keys are appended. The file is restricted to its owner and the
// parsed result is returned.
func UpdateEnv(path string, a Answers) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	if len(lines) == 1 && lines[0] == "" {
		lines = nil
	}
	for _, kv := range a.Values() {
		line, err := envLine(kv.Key, kv.Value)
		if err != nil {
			return nil, fmt.Errorf("encoding %s: %w", kv.Key, err)
		}
		lines = setLine(lines, kv.Key, line)
	}

	out := strings.Join(lines, "\n") + "\n"
	if err := os.WriteFile(path, []byte(out), platform.OwnerOnly); err != nil {
		return nil, fmt.Errorf("writing %s: %w", path, err)
	}
	if err := platform.RestrictToOwner(path); err != nil {
		return nil, err
	}

	env, err := godotenv.Unmarshal(out)
	if err != nil {
		return nil, fmt.Errorf("parsing updated %s: %w", path, err)
	}
	return env, nil
}

// envLine renders one assignment that godotenv reads back unchanged.
// Values holding characters godotenv escapes inside double quotes are
// single-quoted instead, which godotenv takes literally.
func envLine(key, value string) (string, error) {
	if !strings.ContainsAny(value, escapedChars) {
		return godotenv.Marshal(map[string]string{key: value})
	}
	if strings.ContainsAny(value, "'\n\r") || strings.HasSuffix(value, "\\") {
		return "", fmt.Errorf("%w: %s cannot be quoted", ErrInvalidAnswer, key)
	}
	return key + "='" + value + "'", nil
}

// setLine replaces the first assignment of key, or appends line.
func setLine(lines []string, key, line string) []string {
	for i, l := range lines {
		trimmed := strings.TrimPrefix(strings.TrimSpace(l), "export ")
		if strings.HasPrefix(trimmed, key+"=") || strings.HasPrefix(trimmed, key+" =") {
			lines[i] = line
			return lines
		}
	}
	return append(lines, line)
}
