// Package report implements the failure-artifact pipeline: on test failure
// it captures a screenshot, console and network logs and the page HTML, and
// attaches them to the run's report output. Capture failures are logged and
// never propagate, so they can never mask the original test failure.
package report

import (
	"fmt"
	"sync"
	"time"
)

// Collector accumulates timestamped console lines, network entries and step
// descriptions for one test. It is owned by the test fixture and discarded
// at test end unless a failure persists it into the artifact bundle.
type Collector struct {
	mu      sync.Mutex
	console []string
	network []NetworkEntry
	steps   []string
	started time.Time
}

// NewCollector creates an empty collector.
func NewCollector() *Collector {
	return &Collector{started: time.Now()}
}

// AddConsole records one console log line.
func (c *Collector) AddConsole(line string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.console = append(c.console, stamp(line))
}

// AddNetwork records one resolved network entry.
func (c *Collector) AddNetwork(entry NetworkEntry) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.network = append(c.network, entry)
}

// Step records a test step description, so failures can show how far the
// test got.
func (c *Collector) Step(format string, args ...any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.steps = append(c.steps, stamp(fmt.Sprintf(format, args...)))
}

// ConsoleLines returns a snapshot of the recorded console lines.
func (c *Collector) ConsoleLines() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, len(c.console))
	copy(out, c.console)
	return out
}

// Steps returns a snapshot of the recorded step descriptions.
func (c *Collector) Steps() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, len(c.steps))
	copy(out, c.steps)
	return out
}

// NetworkEntries returns a snapshot of the recorded network entries.
func (c *Collector) NetworkEntries() []NetworkEntry {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]NetworkEntry, len(c.network))
	copy(out, c.network)
	return out
}

func stamp(line string) string {
	return fmt.Sprintf("[%s] %s", time.Now().Format("2006-01-02 15:04:05"), line)
}
