package console

import (
	"bufio"
	"context"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/dm-vev/bluemap/server/cmd"
	"github.com/dm-vev/bluemap/server/mainthread"
	"github.com/dm-vev/bluemap/server/permission"
	"github.com/dm-vev/bluemap/server/text"
)

// Console provides a simple CLI backed command source that reads commands from
// an io.Reader (defaulting to os.Stdin) and executes them on the main thread.
type Console struct {
	queue  *mainthread.Queue
	log    *slog.Logger
	reader io.Reader
	src    *Source
}

// Config holds the settings of the console issuer.
type Config struct {
	// Name is the name the console is shown as. Defaults to "Console".
	Name string
	// Permissions lists the nodes granted to or, prefixed with '-', denied to
	// the console.
	Permissions []string
	// Default is the result of checks for nodes not listed in Permissions.
	Default bool
}

// New returns a Console that runs commands on q. The console reads from
// os.Stdin and writes command output to the supplied logger.
func New(q *mainthread.Queue, conf Config, log *slog.Logger) *Console {
	if log == nil {
		log = slog.Default()
	}
	return &Console{
		queue:  q,
		log:    log,
		reader: os.Stdin,
		src:    NewSource(conf, log),
	}
}

// WithReader sets a custom reader for the console input. It enables testing the
// console without relying on os.Stdin.
func (c *Console) WithReader(r io.Reader) *Console {
	if r != nil {
		c.reader = r
	}
	return c
}

// Source returns the command source commands typed into the console run as.
func (c *Console) Source() *Source {
	return c.src
}

// Run starts consuming commands from the console. It blocks until the context
// is cancelled or the underlying reader reaches EOF.
func (c *Console) Run(ctx context.Context) {
	scanner := bufio.NewScanner(c.reader)

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				c.log.Error("console input error", "err", err)
			}
			return
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if !strings.HasPrefix(line, "/") {
			line = "/" + line
		}
		done := c.queue.Exec(func() {
			cmd.ExecuteLine(c.src, line, nil)
		})
		select {
		case <-done:
		case <-ctx.Done():
			return
		}
	}
}

// Source is the cmd.Source of the server console. The console has no location
// and its permissions come from its Config rather than from a permission
// store.
type Source struct {
	cmd.Locator

	name  string
	log   *slog.Logger
	perms permission.Set
	def   bool
}

// NewSource returns the console Source for the Config passed.
func NewSource(conf Config, log *slog.Logger) *Source {
	if log == nil {
		log = slog.Default()
	}
	if conf.Name == "" {
		conf.Name = "Console"
	}
	return &Source{
		Locator: cmd.NewLocator(cmd.Unlocated(), nil),
		name:    conf.Name,
		log:     log,
		perms:   permission.NewSet(conf.Permissions...),
		def:     conf.Default,
	}
}

// Name ...
func (s *Source) Name() string { return s.name }

// SendMessage writes the plain content of the message to the log.
func (s *Source) SendMessage(t text.Text) {
	s.log.Info(strings.ToValidUTF8(t.Plain(), "\uFFFD"))
}

// HasPermission ...
func (s *Source) HasPermission(node string) bool {
	if node == "" {
		return false
	}
	return s.perms.Lookup(node).Bool(s.def)
}

var _ cmd.NamedSource = (*Source)(nil)
