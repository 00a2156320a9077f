package e2e_test

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/mcoot/kmapgame/internal/api"
	"github.com/mcoot/kmapgame/internal/cli"
	"github.com/mcoot/kmapgame/internal/factory"
	"github.com/mcoot/kmapgame/internal/model"
	"github.com/mcoot/kmapgame/internal/testutil"
)

// CLISuite runs the kmapgame CLI in-process against a real HTTP server
type CLISuite struct {
	suite.Suite
	app       *factory.TestApp
	server    *httptest.Server
	stateFile string
}

func TestCLISuite(t *testing.T) {
	suite.Run(t, new(CLISuite))
}

func (s *CLISuite) SetupTest() {
	s.app = factory.NewTestApp()
	s.server = httptest.NewServer(api.NewRouter(api.RouterConfig{
		Logger:     testutil.NopLogger(),
		Controller: s.app.GameController,
		Metrics:    s.app.Metrics,
		Gatherer:   s.app.Registry,
	}))
	s.stateFile = filepath.Join(s.T().TempDir(), "state.json")
}

func (s *CLISuite) TearDownTest() {
	s.server.Close()
}

// run executes the CLI with JSON output and returns stdout
func (s *CLISuite) run(args ...string) (string, error) {
	cmd := cli.NewRootCmd()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(append([]string{
		"--server", s.server.URL,
		"--state-file", s.stateFile,
		"--output", "json",
	}, args...))
	err := cmd.Execute()
	return stdout.String(), err
}

func (s *CLISuite) mustRun(args ...string) string {
	out, err := s.run(args...)
	s.Require().NoError(err, "kmapgame %v", args)
	return out
}

// decodeStream decodes consecutive JSON documents from CLI output
func decodeStream(t *testing.T, out string, targets ...any) {
	t.Helper()
	dec := json.NewDecoder(bytes.NewBufferString(out))
	for _, target := range targets {
		require.NoError(t, dec.Decode(target))
	}
}

func (s *CLISuite) solve(p model.Puzzle) string {
	_, answers := s.app.Engine.Check(p, "")
	s.Require().NotEmpty(answers)
	return answers[0]
}

func (s *CLISuite) TestHealth() {
	var result cli.HealthResult
	decodeStream(s.T(), s.mustRun("health"), &result)
	s.Equal("ok", result.Status)
}

func (s *CLISuite) TestAdaptiveSessionFlow() {
	var session cli.Session
	decodeStream(s.T(), s.mustRun("session", "start", "ann"), &session)
	s.Equal("ann", session.Username)
	s.Equal("adaptive", session.Mode)
	s.Equal(5, session.Difficulty)
	s.Equal(3, session.Puzzle.NumVars)

	for i := 0; i < 5; i++ {
		var verdict cli.SubmitResult
		var next cli.Session
		decodeStream(s.T(), s.mustRun("answer", s.solve(session.Puzzle)), &verdict, &next)
		s.True(verdict.Correct)
		session = next
	}
	s.Equal(5, session.Score)
	s.Equal(4, session.Puzzle.NumVars)

	var verdict cli.SubmitResult
	decodeStream(s.T(), s.mustRun("answer", "A", "--no-advance"), &verdict)
	s.False(verdict.Correct)
	s.NotEmpty(verdict.Answers)

	var shown cli.Session
	decodeStream(s.T(), s.mustRun("session", "show"), &shown)
	s.Equal(5, shown.Score)

	var reset cli.Session
	decodeStream(s.T(), s.mustRun("session", "advance", "incorrect"), &reset)
	s.Equal(0, reset.Score)
	s.Equal(3, reset.Puzzle.NumVars)
}

func (s *CLISuite) TestDailyFlow() {
	var session cli.Session
	decodeStream(s.T(), s.mustRun("session", "start", "ann", "--mode", "daily"), &session)
	s.Equal("daily", session.Mode)
	s.Equal(4, session.Difficulty)
	s.NotEmpty(session.StartedAt)

	s.app.MockClock.Advance(75 * time.Second)

	var verdict cli.SubmitResult
	var next cli.Session
	decodeStream(s.T(), s.mustRun("answer", s.solve(session.Puzzle)), &verdict, &next)
	s.True(verdict.Correct)
	s.Equal(session.StartedAt, next.StartedAt)
	s.Equal(session.Puzzle, next.Puzzle)

	var finish cli.FinishDailyResult
	decodeStream(s.T(), s.mustRun("daily", "finish", "--elapsed", "10"), &finish)
	s.Equal(75, finish.ElapsedSeconds)
	s.Equal(1, finish.Rank)

	decodeStream(s.T(), s.mustRun("daily", "finish", "--username", "bob", "--elapsed", "60", "--score", "1"), &finish)
	s.Equal(60, finish.ElapsedSeconds)
	s.Equal(1, finish.Rank)

	var board cli.DailyLeaderboard
	decodeStream(s.T(), s.mustRun("daily", "leaderboard", "--username", "ann"), &board)
	s.Equal("2025-03-14", board.Date)
	s.Equal(2, board.TotalParticipants)
	s.Require().NotNil(board.UserRank)
	s.Equal(2, *board.UserRank)

	var daily cli.DailyChallenge
	decodeStream(s.T(), s.mustRun("daily", "show", "--username", "bob"), &daily)
	s.True(daily.UserCompleted)
	s.Require().NotNil(daily.UserTime)
	s.Equal(60, *daily.UserTime)
	s.Equal(session.Puzzle, daily.Puzzle)
}

func (s *CLISuite) TestDailyFinishWithoutChallenge() {
	_, err := s.run("daily", "finish", "--username", "ann", "--elapsed", "10", "--score", "0")
	s.Require().Error(err)
	s.Contains(err.Error(), "DAILY_CHALLENGE_NOT_FOUND")
}

func (s *CLISuite) TestTimeAttackFlow() {
	var state cli.TimeAttackState
	decodeStream(s.T(), s.mustRun("timeattack", "start", "ann", "3"), &state)
	s.Equal(5, state.Puzzle.NumVars)

	for i := 0; i < 2; i++ {
		var check cli.TimeAttackCheck
		decodeStream(s.T(), s.mustRun("ta", "answer", s.solve(state.Puzzle)), &check)
		s.True(check.Correct)
		s.False(check.GameOver)
		state = check.State
	}

	var over cli.TimeAttackCheck
	decodeStream(s.T(), s.mustRun("ta", "answer", "A"), &over)
	s.True(over.GameOver)
	s.Equal(2, over.State.QuestionsSolved)

	var finish cli.TimeAttackFinish
	decodeStream(s.T(), s.mustRun("ta", "finish"), &finish)
	s.Equal(2, finish.QuestionsSolved)
	s.Equal(3, finish.Difficulty)
	s.Equal(1, finish.Rank)

	_, err := s.run("ta", "finish")
	s.Require().Error(err)

	var board cli.TimeAttackLeaderboard
	decodeStream(s.T(), s.mustRun("ta", "leaderboard", "--difficulty", "3"), &board)
	s.Require().Len(board.Leaderboard, 1)
	s.Equal("ann", board.Leaderboard[0].Username)
}

func (s *CLISuite) TestCommandsNeedASession() {
	_, err := s.run("answer", "A")
	s.Require().Error(err)
	s.Contains(err.Error(), "no session in progress")
}

func (s *CLISuite) TestInvalidTimeAttackDifficulty() {
	_, err := s.run("timeattack", "start", "ann", "4")
	s.Require().Error(err)
	s.Contains(err.Error(), "INVALID_REQUEST")
}
