package bridge

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"mercator-hq/saturn/pkg/engine"
)

// FuzzConfig controls a differential fuzzing run.
type FuzzConfig struct {
	// Iterations is the number of policy/request pairs to generate.
	Iterations int

	// Seed makes the run reproducible. Zero means derive a seed from the
	// clock via rand.New's caller.
	Seed int64

	// ArtifactDir is where mismatch artifacts are written.
	// Default: "fuzz_failures".
	ArtifactDir string

	// Limits are the engine bounds the translation must respect.
	Limits engine.Limits
}

// DefaultFuzzConfig returns the default fuzzing configuration.
func DefaultFuzzConfig() FuzzConfig {
	return FuzzConfig{
		Iterations:  10000,
		ArtifactDir: "fuzz_failures",
		Limits:      engine.DefaultLimits(),
	}
}

// FuzzReport summarizes a fuzzing run.
type FuzzReport struct {
	Iterations int
	Mismatches int
	Errors     int
}

// Fuzzer generates random legacy policies and requests and shadow-evaluates
// each pair, recording any divergence between the reference evaluator and
// the engine.
type Fuzzer struct {
	config FuzzConfig
	rng    *rand.Rand
	logger *slog.Logger
}

// NewFuzzer creates a fuzzer. A zero Seed is replaced by a random one so
// that every run is still reproducible from its logged seed.
func NewFuzzer(config FuzzConfig, logger *slog.Logger) *Fuzzer {
	if logger == nil {
		logger = slog.Default()
	}
	if config.Iterations <= 0 {
		config.Iterations = DefaultFuzzConfig().Iterations
	}
	if config.ArtifactDir == "" {
		config.ArtifactDir = DefaultFuzzConfig().ArtifactDir
	}
	if config.Seed == 0 {
		config.Seed = rand.Int63()
	}
	return &Fuzzer{
		config: config,
		rng:    rand.New(rand.NewSource(config.Seed)),
		logger: logger,
	}
}

// Run executes the fuzzing loop and returns a summary report. Mismatches are
// not errors: the loop keeps going and saves artifacts for each one.
func (f *Fuzzer) Run() (FuzzReport, error) {
	report := FuzzReport{}
	f.logger.Info("Differential fuzzer started",
		"iterations", f.config.Iterations,
		"seed", f.config.Seed,
	)

	for i := 1; i <= f.config.Iterations; i++ {
		report.Iterations++

		pf := f.randomPolicyFile()
		req := f.randomRequest()

		result, err := ShadowEvaluate(pf, req, f.config.Limits)
		if err != nil {
			report.Errors++
			f.logger.Warn("Shadow evaluation error", "iteration", i, "error", err)
			continue
		}

		if !result.Match {
			report.Mismatches++
			f.logger.Error("Decision mismatch detected", "iteration", i)
			if err := f.saveMismatch(i, pf, req, result); err != nil {
				f.logger.Warn("Failed to save mismatch artifacts", "iteration", i, "error", err)
			}
		}

		if i%1000 == 0 {
			f.logger.Info("Fuzzing progress",
				"iterations", i,
				"mismatches", report.Mismatches,
			)
		}
	}

	f.logger.Info("Fuzzing complete",
		"iterations", report.Iterations,
		"mismatches", report.Mismatches,
		"errors", report.Errors,
	)
	return report, nil
}

// saveMismatch writes the policy (YAML), request (JSON), and shadow result
// (JSON) for one divergence.
func (f *Fuzzer) saveMismatch(iteration int, pf *PolicyFile, req *EvalRequest, result *ShadowResult) error {
	if err := os.MkdirAll(f.config.ArtifactDir, 0o755); err != nil {
		return fmt.Errorf("create artifact dir: %w", err)
	}

	policyYAML, err := yaml.Marshal(pf)
	if err != nil {
		return fmt.Errorf("marshal policy: %w", err)
	}
	requestJSON, err := json.MarshalIndent(req, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}
	resultJSON, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}

	files := []struct {
		name string
		data []byte
	}{
		{fmt.Sprintf("fail_%d_policy.yaml", iteration), policyYAML},
		{fmt.Sprintf("fail_%d_request.json", iteration), requestJSON},
		{fmt.Sprintf("fail_%d_result.json", iteration), resultJSON},
	}
	for _, file := range files {
		path := filepath.Join(f.config.ArtifactDir, file.name)
		if err := os.WriteFile(path, file.data, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", file.name, err)
		}
	}

	f.logger.Info("Mismatch artifacts saved", "dir", f.config.ArtifactDir, "iteration", iteration)
	return nil
}

// Generation vocabularies. Small pools maximize collision odds between
// policy match lists and request values, which is where divergences hide.
var (
	fuzzGroups    = []string{"admins", "devs", "ops", "auditors"}
	fuzzEmails    = []string{"alice@example.com", "bob@example.com", "carol@example.com"}
	fuzzUsernames = []string{"alice", "bob", "carol", "dave"}
	fuzzIPs       = []string{"10.0.0.1", "10.0.0.2", "192.168.1.10"}
	fuzzWindows   = []string{"09:00-17:00", "00:00-23:59", "22:00-06:00"}
	fuzzClocks    = []string{"08:59", "09:00", "12:30", "17:00", "17:01", "23:00", "03:15"}
	fuzzWebAuthn  = []string{"key-1", "key-2", "key-3"}
)

func (f *Fuzzer) randomPolicyFile() *PolicyFile {
	pf := &PolicyFile{
		Default: DefaultGrant{
			Principals:  []string{"sandbox"},
			MaxDuration: "15m",
		},
	}

	nPolicies := f.rng.Intn(9)
	for i := 0; i < nPolicies; i++ {
		policy := LegacyPolicy{
			Name:        fmt.Sprintf("policy-%d", i),
			Principals:  []string{f.pick(fuzzUsernames)},
			MaxDuration: "60m",
			Match: MatchBlock{
				OIDCGroups:     f.subset(fuzzGroups),
				Emails:         f.subset(fuzzEmails),
				LocalUsernames: f.subset(fuzzUsernames),
				SourceIP:       f.subset(fuzzIPs),
				Hours:          f.subset(fuzzWindows),
				WebAuthnIDs:    f.subset(fuzzWebAuthn),
			},
		}
		pf.Policies = append(pf.Policies, policy)
	}
	return pf
}

func (f *Fuzzer) randomRequest() *EvalRequest {
	req := &EvalRequest{
		OIDCGroups: f.subset(fuzzGroups),
	}
	if f.rng.Intn(2) == 0 {
		req.Email = f.pick(fuzzEmails)
	}
	if f.rng.Intn(2) == 0 {
		req.LocalUsername = f.pick(fuzzUsernames)
	}
	if f.rng.Intn(2) == 0 {
		req.SourceIP = f.pick(fuzzIPs)
	}
	if f.rng.Intn(2) == 0 {
		req.CurrentTime = f.pick(fuzzClocks)
	}
	if f.rng.Intn(2) == 0 {
		req.WebAuthnID = f.pick(fuzzWebAuthn)
	}
	return req
}

func (f *Fuzzer) pick(pool []string) string {
	return pool[f.rng.Intn(len(pool))]
}

// subset returns a random, possibly empty, subset of the pool.
func (f *Fuzzer) subset(pool []string) []string {
	var out []string
	for _, member := range pool {
		if f.rng.Intn(3) == 0 {
			out = append(out, member)
		}
	}
	return out
}
