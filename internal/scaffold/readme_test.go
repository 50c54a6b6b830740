package scaffold

import (
	"strings"
	"testing"

	"github.com/ormstarter/ormstarter/internal/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func renderFor(t *testing.T, key string) string {
	t.Helper()
	d, err := registry.MustLoad().Lookup(key)
	require.NoError(t, err)
	out, err := RenderReadme(d)
	require.NoError(t, err)
	return string(out)
}

func TestRenderReadmeQuickStart(t *testing.T) {
	out := renderFor(t, "sequelize")

	assert.True(t, strings.HasPrefix(out, "# sequelize-starter\n\n"))
	assert.Contains(t, out, "1. Install dependencies:\n   ```bash\n   npm install\n   ```\n\n2. Configure environment:")
	assert.Contains(t, out, "3. Run migrations:\n   ```bash\n   npm run migrate\n   ```\n\n4. Start the server:\n   ```bash\n   npm run dev\n   ```\n\n## Available Scripts")
}

func TestRenderReadmeScriptsInOrder(t *testing.T) {
	d, err := registry.MustLoad().Lookup("knex")
	require.NoError(t, err)
	out := renderFor(t, "knex")

	last := -1
	for _, s := range d.Scripts {
		line := "- `npm run " + s.Key + "` - " + s.Value + "\n"
		idx := strings.Index(out, line)
		require.True(t, idx > last, "script %q missing or out of order", s.Key)
		last = idx
	}
}

func TestRenderReadmeProjectStructure(t *testing.T) {
	out := renderFor(t, "mongoose")

	want := "```\nmongoose-starter/\n" +
		"├── app.js              # Main application file\n" +
		"├── config/               # Database configuration\n" +
		"├── models/               # Mongoose models\n" +
		"├── seeds/                # Database seeders\n" +
		"├── .env.example          # Environment template\n" +
		"├── package.json          # Dependencies and scripts\n" +
		"└── README.md             # This file\n```\n"
	assert.Contains(t, out, want)
}

func TestRenderReadmeEnvironment(t *testing.T) {
	out := renderFor(t, "mongoose")
	assert.Contains(t, out, "```bash\nMONGO_URI=mongodb://localhost:27017/your_db_name\nPORT=3000\nNODE_ENV=development\n```")

	out = renderFor(t, "knex")
	assert.Contains(t, out, "DB_HOST=localhost\nDB_PORT=3306\nDB_USER=root\nDB_PASSWORD=your_password\nDB_NAME=your_db_name\nPORT=3000\n")
}

func TestRenderReadmeFixedSections(t *testing.T) {
	out := renderFor(t, "mikroorm")
	for _, want := range []string{
		"- `DELETE /users/:id` - Delete user by ID",
		"## Contributing",
		"This project is licensed under the MIT License.\n",
	} {
		assert.Contains(t, out, want)
	}
	assert.NotContains(t, out, "&amp;")
}
