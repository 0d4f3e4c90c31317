package walkthrough

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	service "github.com/okian/careermap/internal/app"
	"github.com/okian/careermap/internal/domain/model"
	"github.com/okian/careermap/pkg/logger"
)

// File permission constants.
const (
	directoryPermission = 0750
)

// ErrVerificationFailed is returned when any session failed or showed an
// inconsistent dashboard.
var ErrVerificationFailed = errors.New("walkthrough verification failed")

// Run walks cfg.Sessions sessions through the whole flow and verifies
// what the server reports along the way.
func Run(ctx context.Context, cfg *Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	stats := &Stats{StartTime: time.Now()}

	logger.Get().Info(ctx, "starting career map walkthrough",
		logger.String("baseURL", cfg.BaseURL),
		logger.Int("sessions", cfg.Sessions),
		logger.Int("workers", cfg.Workers),
		logger.Duration("timeout", cfg.Timeout),
		logger.Duration("waitTimeout", cfg.WaitTimeout),
		logger.String("timeline", cfg.Timeline),
		logger.Any("seed", cfg.Seed),
		logger.Bool("verbose", cfg.Verbose))

	client := NewClient(cfg.BaseURL, cfg.Timeout)

	if err := checkServiceHealth(ctx, client); err != nil {
		return fmt.Errorf("service health check failed: %w", err)
	}

	q, err := client.Questionnaire(ctx)
	if err != nil {
		return fmt.Errorf("questionnaire retrieval failed: %w", err)
	}

	transcripts := walkSessions(ctx, cfg, client, q)
	summarize(transcripts, stats)

	if cfg.OutputFile != "" {
		if err := saveTranscripts(ctx, cfg.OutputFile, transcripts); err != nil {
			logger.Get().Warn(ctx, "failed to save transcripts", logger.Error(err))
		}
	}

	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)
	displayFinalStats(ctx, stats)

	if stats.SessionsFailed > 0 || stats.Issues > 0 {
		return fmt.Errorf("%w: %d sessions failed, %d issues", ErrVerificationFailed, stats.SessionsFailed, stats.Issues)
	}
	logger.Get().Info(ctx, "walkthrough completed successfully")
	return nil
}

// checkServiceHealth verifies the service is running.
func checkServiceHealth(ctx context.Context, client *Client) error {
	logger.Get().Info(ctx, "checking service health")
	if err := client.Health(ctx); err != nil {
		return err
	}
	logger.Get().Info(ctx, "service is healthy")
	return nil
}

// walkSessions runs the sessions on a fixed set of workers. Transcripts
// are returned in session order.
func walkSessions(ctx context.Context, cfg *Config, client *Client, q Questionnaire) []Transcript {
	workers := max(1, cfg.Workers)
	transcripts := make([]Transcript, cfg.Sessions)

	var done, failed int64
	indexChan := make(chan int, workers*WorkerChannelMultiplier)
	var wg sync.WaitGroup

	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range indexChan {
				t := walkSession(ctx, cfg, client, q, i)
				transcripts[i] = t

				n := atomic.AddInt64(&done, 1)
				if t.Error != "" {
					atomic.AddInt64(&failed, 1)
				}
				logger.Get().Debug(ctx, "session finished",
					logger.Int("done", int(n)),
					logger.Int("total", cfg.Sessions),
					logger.String("session", t.SessionID),
					logger.Int("failedSoFar", int(atomic.LoadInt64(&failed))),
					logger.Int("issues", len(t.Issues)))
			}
		}()
	}

	func() {
		defer close(indexChan)
		for i := range cfg.Sessions {
			select {
			case <-ctx.Done():
				return
			case indexChan <- i:
			}
		}
	}()

	wg.Wait()
	return transcripts
}

// walkSession drives one session from creation to deletion.
func walkSession(ctx context.Context, cfg *Config, client *Client, q Questionnaire, index int) Transcript {
	gen := NewGenerator(q, cfg.Seed, index)
	t := Transcript{Answers: gen.Answers()}
	if err := walk(ctx, cfg, client, gen, &t); err != nil {
		t.Error = err.Error()
		logger.Get().Warn(ctx, "session failed",
			logger.Int("index", index),
			logger.String("session", t.SessionID),
			logger.Error(err))
	}
	if t.SessionID != "" {
		if err := client.DeleteSession(context.WithoutCancel(ctx), t.SessionID); err != nil {
			logger.Get().Debug(ctx, "failed to delete session", logger.String("session", t.SessionID), logger.Error(err))
		}
	}
	return t
}

func walk(ctx context.Context, cfg *Config, client *Client, gen *Generator, t *Transcript) error {
	v, err := client.CreateSession(ctx)
	if err != nil {
		return err
	}
	id := v.ID
	t.SessionID = id

	if _, err := client.StartAssessment(ctx, id); err != nil {
		return err
	}
	last := len(t.Answers.Steps) - 1
	for _, form := range t.Answers.Steps[:last] {
		if _, err := client.NextStep(ctx, id, form); err != nil {
			return err
		}
	}

	for attempt := 1; ; attempt++ {
		v, err = client.Submit(ctx, id, t.Answers.Steps[last])
		if err == nil {
			break
		}
		if !IsStatus(err, http.StatusBadGateway) || attempt >= SubmitAttempts {
			return err
		}
		t.SubmitRetries++
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(SubmitRetryDelay):
		}
	}

	v, err = waitFor(ctx, client, id, cfg.WaitTimeout, "dashboard", dashboardSettled)
	if err != nil {
		return err
	}
	t.Cluster = v.Dashboard.SelectedCluster
	t.Timeline = string(v.Dashboard.Timeline)
	t.Issues = append(t.Issues, verifyDashboard(v)...)

	timeline := cfg.Timeline
	if timeline == "" {
		timeline = gen.Timeline()
	}
	if timeline != t.Timeline {
		if _, err := client.SelectTimeline(ctx, id, timeline); err != nil {
			return err
		}
		v, err = waitFor(ctx, client, id, cfg.WaitTimeout, "timeline roadmap", dashboardSettled)
		if err != nil {
			return err
		}
		t.Timeline = timeline
		t.Issues = append(t.Issues, verifyDashboard(v)...)
	}

	if err := completeFirstPhase(ctx, client, id, v, t); err != nil {
		return err
	}

	v, err = client.GetSession(ctx, id)
	if err != nil {
		return err
	}
	if v.Dashboard == nil {
		return fmt.Errorf("session %s left the dashboard (view %q)", id, v.View)
	}
	t.Issues = append(t.Issues, verifyDashboard(v)...)
	if rm := v.Dashboard.Roadmap.Roadmap; rm != nil {
		t.Phases = len(rm.Phases)
	}
	t.Badges = len(v.Dashboard.Roadmap.Badges)
	t.Mentors = len(v.Dashboard.Mentors.Mentors)

	if role, ok := firstJobRole(*v.Dashboard); ok {
		if err := explain(ctx, cfg, client, id, role, t); err != nil {
			return err
		}
	}

	sim, err := client.SimulateImpact(ctx, id, t.Answers.NewSkill, "")
	switch {
	case err == nil:
		t.Simulation = &sim
	case IsStatus(err, http.StatusBadGateway):
		t.Issues = append(t.Issues, "simulation: "+err.Error())
	default:
		return err
	}

	notes, err := client.Notifications(ctx, id)
	if err != nil {
		return err
	}
	t.Notifications = len(notes)

	final, err := client.GetSession(ctx, id)
	if err != nil {
		return err
	}
	t.Final = &final
	return nil
}

// completeFirstPhase toggles every step of the first non-empty phase and
// expects a badge for it.
func completeFirstPhase(ctx context.Context, client *Client, id string, v service.SessionView, t *Transcript) error {
	rm := v.Dashboard.Roadmap.Roadmap
	if rm == nil {
		return nil
	}
	for pi, ph := range rm.Phases {
		if len(ph.Steps) == 0 {
			continue
		}
		for si, st := range ph.Steps {
			if st.Completed {
				continue
			}
			if _, err := client.ToggleStep(ctx, id, pi, si); err != nil {
				return err
			}
		}
		after, err := client.GetSession(ctx, id)
		if err != nil {
			return err
		}
		if after.Dashboard == nil || len(after.Dashboard.Roadmap.Badges) == 0 {
			t.Issues = append(t.Issues, fmt.Sprintf("no badge after completing phase %d", pi))
		}
		return nil
	}
	return nil
}

func explain(ctx context.Context, cfg *Config, client *Client, id, role string, t *Transcript) error {
	if _, err := client.ExplainCareer(ctx, id, role); err != nil {
		return err
	}
	v, err := waitFor(ctx, client, id, cfg.WaitTimeout, "explanation", func(v service.SessionView) bool {
		return v.Dashboard != nil && !v.Dashboard.Explanation.Loading
	})
	if err != nil {
		return err
	}
	t.Explained = role
	t.Issues = append(t.Issues, verifyExplanation(*v.Dashboard, role)...)
	_, err = client.DismissExplanation(ctx, id)
	return err
}

func dashboardSettled(v service.SessionView) bool {
	return v.Dashboard != nil && !v.Dashboard.Roadmap.Loading && !v.Dashboard.Mentors.Loading
}

// waitFor polls the session until done reports true or timeout passes.
func waitFor(ctx context.Context, client *Client, id string, timeout time.Duration, what string, done func(service.SessionView) bool) (service.SessionView, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ticker := time.NewTicker(PollInterval)
	defer ticker.Stop()
	for {
		v, err := client.GetSession(ctx, id)
		if err != nil {
			return service.SessionView{}, err
		}
		if done(v) {
			return v, nil
		}
		select {
		case <-ctx.Done():
			return service.SessionView{}, fmt.Errorf("timed out waiting for %s: %w", what, ctx.Err())
		case <-ticker.C:
		}
	}
}

// summarize folds the transcripts into stats.
func summarize(transcripts []Transcript, stats *Stats) {
	for _, t := range transcripts {
		if t.SessionID == "" && t.Error == "" {
			// never dispatched
			continue
		}
		stats.SessionsStarted++
		stats.SubmitRetries += t.SubmitRetries
		stats.Issues += len(t.Issues)
		stats.Notifications += t.Notifications
		if t.Error != "" {
			stats.SessionsFailed++
			continue
		}
		stats.SessionsCompleted++
		stats.Badges += t.Badges
		if t.Phases > 0 {
			stats.Roadmaps++
		}
		if t.Explained != "" {
			stats.Explanations++
		}
		if t.Simulation != nil {
			stats.Simulations++
		}
	}
}

// saveTranscripts writes the transcripts to a JSON file.
func saveTranscripts(ctx context.Context, filename string, transcripts []Transcript) error {
	if dir := filepath.Dir(filename); dir != "." {
		if err := os.MkdirAll(dir, directoryPermission); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			logger.Get().Error(context.Background(), "failed to close file", logger.Error(err))
		}
	}()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	if err := enc.Encode(transcripts); err != nil {
		return fmt.Errorf("failed to write transcripts: %w", err)
	}
	logger.Get().Info(ctx, "transcripts saved to file", logger.String("filename", filename))
	return nil
}

// displayFinalStats logs the final run statistics.
func displayFinalStats(ctx context.Context, stats *Stats) {
	var successRate, sessionsPerSecond float64
	if stats.SessionsStarted > 0 {
		successRate = float64(stats.SessionsCompleted) / float64(stats.SessionsStarted) * PercentageMultiplier
	}
	if stats.Duration > 0 {
		sessionsPerSecond = float64(stats.SessionsStarted) / stats.Duration.Seconds()
	}

	logger.Get().Info(ctx, "final statistics",
		logger.Int("sessionsStarted", stats.SessionsStarted),
		logger.Int("sessionsCompleted", stats.SessionsCompleted),
		logger.Int("sessionsFailed", stats.SessionsFailed),
		logger.Int("submitRetries", stats.SubmitRetries),
		logger.Int("roadmaps", stats.Roadmaps),
		logger.Int("badges", stats.Badges),
		logger.Int("explanations", stats.Explanations),
		logger.Int("simulations", stats.Simulations),
		logger.Int("notifications", stats.Notifications),
		logger.Int("issues", stats.Issues),
		logger.Float64("successRate", successRate),
		logger.Float64("sessionsPerSecond", sessionsPerSecond),
		logger.Duration("duration", stats.Duration))
}

// Timelines lists the timelines the server accepts, for flag help.
func Timelines() []string {
	out := make([]string, len(model.Timelines))
	for i, t := range model.Timelines {
		out[i] = string(t)
	}
	return out
}
