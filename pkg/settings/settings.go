package settings

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/manifold/taskcoach/pkg/misc/logging"
	"github.com/manifold/taskcoach/pkg/observer"
	"github.com/manifold/taskcoach/pkg/pubsub"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

var (
	ErrNoSection   = errors.New("settings: no such section")
	ErrNoOption    = errors.New("settings: no such option")
	ErrInvalidBool = errors.New("settings: invalid boolean")
)

// Settings is a sectioned store of text options with defaults. Changing an
// option sends an observer event of type "<section>.<option>" with the
// settings as source.
type Settings struct {
	Log logging.Logger

	pub      *observer.Publisher
	bus      *pubsub.Bus
	fs       afero.Fs
	path     string
	defaults Values
	minimum  Values

	mu     sync.RWMutex
	values Values
}

type Option func(*Settings)

func WithPublisher(pub *observer.Publisher) Option {
	return func(s *Settings) { s.pub = pub }
}

func WithBus(bus *pubsub.Bus) Option {
	return func(s *Settings) { s.bus = bus }
}

// WithFile persists the settings as YAML at path on fs.
func WithFile(fs afero.Fs, path string) Option {
	return func(s *Settings) {
		s.fs = fs
		s.path = path
	}
}

func WithDefaults(defaults, minimum Values) Option {
	return func(s *Settings) {
		s.defaults = defaults
		s.minimum = minimum
	}
}

func WithLogger(log logging.Logger) Option {
	return func(s *Settings) { s.Log = log }
}

func New(opts ...Option) *Settings {
	s := &Settings{
		defaults: Defaults,
		minimum:  Minimum,
		values:   make(Values),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.pub = observer.Or(s.pub)
	if s.bus == nil {
		s.bus = pubsub.Default()
	}
	return s
}

// EventType is the observer event type sent when section.option changes.
func EventType(section, option string) observer.EventType {
	return observer.EventType(section + "." + option)
}

// Topic is the topic published when section.option changes through one of
// the typed setters.
func Topic(section, option string) pubsub.Topic {
	return pubsub.Join("settings", section, option)
}

// Get returns the stored value, or the default when nothing is stored.
func (s *Settings) Get(section, option string) (string, error) {
	s.mu.RLock()
	value, ok := s.values[section][option]
	s.mu.RUnlock()
	if !ok {
		return s.Default(section, option)
	}
	return s.ensureMinimum(section, option, value), nil
}

// Default returns the default of an option. Trailing digits of the section
// are ignored.
func (s *Settings) Default(section, option string) (string, error) {
	key := strings.TrimRight(section, "0123456789")
	defaults, ok := s.defaults[key]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrNoSection, key)
	}
	value, ok := defaults[option]
	if !ok {
		return "", fmt.Errorf("%w: %s.%s", ErrNoOption, key, option)
	}
	return value, nil
}

func (s *Settings) ensureMinimum(section, option, value string) string {
	floor, ok := s.minimum[section][option]
	if !ok {
		return value
	}
	v, err1 := strconv.Atoi(value)
	m, err2 := strconv.Atoi(floor)
	if err1 != nil || err2 != nil || v >= m {
		return value
	}
	return floor
}

// Set stores value and reports whether it differs from the current value.
// Only changes are announced.
func (s *Settings) Set(section, option, value string) bool {
	current, err := s.Get(section, option)
	if err == nil && current == value {
		return false
	}
	s.setRaw(section, option, value)
	observer.NewEvent(EventType(section, option), s, value).Send(s.pub)
	return true
}

func (s *Settings) setRaw(section, option, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.values[section] == nil {
		s.values[section] = make(map[string]string)
	}
	s.values[section][option] = value
}

// SetText sets a string option and publishes it on the topic bus.
func (s *Settings) SetText(section, option, value string) bool {
	return s.setAndPublish(section, option, value, value)
}

func (s *Settings) SetBool(section, option string, value bool) bool {
	text := "False"
	if value {
		text = "True"
	}
	return s.setAndPublish(section, option, text, value)
}

func (s *Settings) SetInt(section, option string, value int) bool {
	return s.setAndPublish(section, option, strconv.Itoa(value), value)
}

// SetList stores value as a YAML flow sequence.
func (s *Settings) SetList(section, option string, value []string) bool {
	node := &yaml.Node{Kind: yaml.SequenceNode, Style: yaml.FlowStyle}
	for _, item := range value {
		node.Content = append(node.Content, &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: item})
	}
	out, err := yaml.Marshal(node)
	if err != nil {
		logging.Error(s.Log, "settings: encoding list:", err)
		return false
	}
	return s.setAndPublish(section, option, strings.TrimSpace(string(out)), value)
}

func (s *Settings) setAndPublish(section, option, text string, value interface{}) bool {
	if !s.Set(section, option, text) {
		return false
	}
	s.bus.Publish(Topic(section, option), value)
	return true
}

func (s *Settings) GetText(section, option string) string {
	value, err := s.Get(section, option)
	if err != nil {
		logging.Debug(s.Log, "settings:", err)
	}
	return value
}

// GetBool accepts "True" and "False" only.
func (s *Settings) GetBool(section, option string) (bool, error) {
	value, err := s.Get(section, option)
	if err != nil {
		return false, err
	}
	switch value {
	case "True":
		return true, nil
	case "False":
		return false, nil
	}
	return false, fmt.Errorf("%w: %q", ErrInvalidBool, value)
}

func (s *Settings) GetInt(section, option string) (int, error) {
	value, err := s.Get(section, option)
	if err != nil {
		return 0, err
	}
	return strconv.Atoi(value)
}

// GetList parses the value as a YAML sequence, e.g. "[subject, dueDate]".
func (s *Settings) GetList(section, option string) ([]string, error) {
	value, err := s.Get(section, option)
	if err != nil {
		return nil, err
	}
	var list []string
	if err := yaml.Unmarshal([]byte(value), &list); err != nil {
		return nil, fmt.Errorf("settings: %s.%s is not a list: %w", section, option, err)
	}
	return list, nil
}

// Section returns the defaults of section overlaid with the stored values.
func (s *Settings) Section(section string) map[string]string {
	out := make(map[string]string)
	for option, value := range s.defaults[strings.TrimRight(section, "0123456789")] {
		out[option] = value
	}
	s.mu.RLock()
	for option, value := range s.values[section] {
		out[option] = value
	}
	s.mu.RUnlock()
	return out
}

// Sections lists the sections that have defaults or stored values.
func (s *Settings) Sections() []string {
	seen := make(map[string]bool)
	for section := range s.defaults {
		seen[section] = true
	}
	s.mu.RLock()
	for section := range s.values {
		seen[section] = true
	}
	s.mu.RUnlock()
	sections := make([]string, 0, len(seen))
	for section := range seen {
		sections = append(sections, section)
	}
	sort.Strings(sections)
	return sections
}

// Decode fills out, a pointer to a struct or map, from a section. Text
// values are converted to the field types.
func (s *Settings) Decode(section string, out interface{}) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		DecodeHook:       mapstructure.StringToTimeDurationHookFunc(),
		Result:           out,
	})
	if err != nil {
		return err
	}
	return decoder.Decode(s.Section(section))
}

// Load reads the settings file. A missing file leaves the defaults in
// place; an unreadable one is recorded in file.inifileloaded and
// file.inifileloaderror and also leaves the defaults.
func (s *Settings) Load() error {
	if s.fs == nil {
		return nil
	}
	buf, err := afero.ReadFile(s.fs, s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		s.setLoadStatus(err.Error())
		return fmt.Errorf("settings: reading %s: %w", s.path, err)
	}
	var values Values
	if err := yaml.Unmarshal(buf, &values); err != nil {
		s.setLoadStatus(err.Error())
		return fmt.Errorf("settings: parsing %s: %w", s.path, err)
	}
	s.mu.Lock()
	s.values = make(Values)
	for section, options := range values {
		s.values[section] = make(map[string]string)
		for option, value := range options {
			s.values[section][option] = value
		}
	}
	s.mu.Unlock()
	s.setLoadStatus("")
	logging.Debug(s.Log, "settings: loaded", s.path)
	return nil
}

func (s *Settings) setLoadStatus(message string) {
	loaded := "True"
	if message != "" {
		loaded = "False"
	}
	s.setRaw("file", "inifileloaded", loaded)
	s.setRaw("file", "inifileloaderror", message)
}

// Save writes the stored values, not the defaults, as YAML.
func (s *Settings) Save() error {
	if s.fs == nil {
		return nil
	}
	s.mu.RLock()
	buf, err := yaml.Marshal(s.values)
	s.mu.RUnlock()
	if err != nil {
		return err
	}
	if dir := filepath.Dir(s.path); dir != "." {
		if err := s.fs.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	if err := afero.WriteFile(s.fs, s.path, buf, 0644); err != nil {
		return fmt.Errorf("settings: writing %s: %w", s.path, err)
	}
	return nil
}
