package executor

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/slivka-go/taskqueue/internal/shellwords"
	"github.com/slivka-go/taskqueue/slerr"
)

// ExecutorConfig configures one Executor: a command prefix, its declared
// options, optional queue-engine arguments, optional output-file
// patterns, and an environment overlay.
type ExecutorConfig struct {
	// Bin is the executable command prefix, e.g. "python3 align.py".
	Bin         string
	Options     []CommandOption
	QueueArgs   []string
	FileResults []FileResult
	Env         map[string]string
	// WorkRoot is the directory new working directories are minted under.
	WorkRoot string
	Log      *zap.Logger
}

// driver is the backend-specific half of an Executor: it knows how to
// turn an assembled command line into a running Job.
type driver interface {
	submit(cfg ExecutorConfig, argv []string, cwd string) (Job, error)
}

// Executor assembles a command line from a value map, mints a working
// directory, and hands the result to a backend driver to produce a Job.
type Executor struct {
	cfg    ExecutorConfig
	bin    []string
	driver driver
}

func newExecutor(cfg ExecutorConfig, d driver) (*Executor, error) {
	bin, err := splitBin(cfg.Bin)
	if err != nil {
		return nil, fmt.Errorf("parsing bin %q: %w", cfg.Bin, err)
	}
	if cfg.Log == nil {
		cfg.Log = zap.NewNop()
	}
	return &Executor{cfg: cfg, bin: bin, driver: d}, nil
}

func splitBin(bin string) ([]string, error) {
	return shellwords.Split(bin)
}

// Call assembles the command line for values, mints a fresh working
// directory under the configured root, submits the job to the backend,
// and returns its Job handle. Any failure, including a failure inside
// Submit, is wrapped as a SubmissionError; the working directory is left
// behind on failure for diagnostics.
func (e *Executor) Call(values map[string]string) (Job, error) {
	cwd, err := e.mintWorkingDir()
	if err != nil {
		return nil, slerr.NewSubmissionError(fmt.Errorf("creating working directory: %w", err))
	}
	options, err := assembleOptions(e.cfg.Options, values)
	if err != nil {
		e.cfg.Log.Error("failed assembling command options", zap.Error(err))
		return nil, slerr.NewSubmissionError(err)
	}
	argv := append(append([]string{}, e.bin...), options...)

	job, err := e.driver.submit(e.cfg, argv, cwd)
	if err != nil {
		e.cfg.Log.Error("critical error occurred when submitting the job", zap.Error(err))
		return nil, slerr.NewSubmissionError(err)
	}
	return job, nil
}

func (e *Executor) mintWorkingDir() (string, error) {
	token := strings.ReplaceAll(uuid.New().String(), "-", "")
	cwd := filepath.Join(e.cfg.WorkRoot, token)
	if err := os.Mkdir(cwd, 0o755); err != nil {
		return "", err
	}
	return cwd, nil
}

// Registry maps a service configuration's execClass name to a
// constructor for that backend. This replaces the original's
// getattr(module, configuration['execClass']) dynamic class lookup
// (spec.md's "Dynamic class lookup" redesign note): an unrecognized
// execClass is a config-time error here instead of a runtime
// AttributeError.
type Registry map[string]func(ExecutorConfig) (*Executor, error)

// OptionConfig is one entry of a service's declared "options" list.
type OptionConfig struct {
	Ref   string `json:"ref"`
	Param string `json:"param"`
	Val   string `json:"val,omitempty"`
}

// ResultConfig is one entry of a service's declared "result" list:
// exactly one of Path or Pattern must be set.
type ResultConfig struct {
	Path    string `json:"path,omitempty"`
	Pattern string `json:"pattern,omitempty"`
}

// ConfigurationConfig is one named variant of a service's execution
// recipe.
type ConfigurationConfig struct {
	ExecClass string            `json:"execClass"`
	Bin       string            `json:"bin"`
	QueueArgs []string          `json:"queueArgs,omitempty"`
	Env       map[string]string `json:"env,omitempty"`
}

// ServiceConfig is the decoded shape of one service's entry in the
// configuration surface documented in spec.md Section 6. Loading it
// from YAML (or any other file format) is an external collaborator's
// job -- this module only consumes the decoded struct.
type ServiceConfig struct {
	Options        []OptionConfig                 `json:"options,omitempty"`
	Result         []ResultConfig                 `json:"result,omitempty"`
	Configurations map[string]ConfigurationConfig `json:"configurations,omitempty"`
}

// NewExecutors builds one Executor per configuration declared in svc,
// using registry to resolve each configuration's execClass. It is the
// Configuration factory described in spec.md Section 4.6.
func NewExecutors(svc ServiceConfig, registry Registry, workRoot string, log *zap.Logger) (map[string]*Executor, error) {
	options := make([]CommandOption, 0, len(svc.Options))
	for _, o := range svc.Options {
		options = append(options, CommandOption{Name: o.Ref, Param: o.Param, Default: o.Val})
	}

	fileResults := make([]FileResult, 0, len(svc.Result))
	for _, r := range svc.Result {
		switch {
		case r.Path != "":
			fileResults = append(fileResults, LiteralFileResult{Path: r.Path})
		case r.Pattern != "":
			fileResults = append(fileResults, PatternFileResult{Pattern: r.Pattern})
		default:
			return nil, fmt.Errorf("result entry has neither \"path\" nor \"pattern\"")
		}
	}

	executors := make(map[string]*Executor, len(svc.Configurations))
	for name, conf := range svc.Configurations {
		factory, ok := registry[conf.ExecClass]
		if !ok {
			return nil, fmt.Errorf("unknown execClass %q for configuration %q", conf.ExecClass, name)
		}
		exe, err := factory(ExecutorConfig{
			Bin:         conf.Bin,
			Options:     options,
			QueueArgs:   conf.QueueArgs,
			FileResults: fileResults,
			Env:         conf.Env,
			WorkRoot:    workRoot,
			Log:         log,
		})
		if err != nil {
			return nil, fmt.Errorf("building executor %q: %w", name, err)
		}
		executors[name] = exe
	}
	return executors, nil
}
