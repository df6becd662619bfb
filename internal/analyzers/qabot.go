package analyzers

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/danieluxury88/BotsTeam/internal/gitlog"
	"github.com/danieluxury88/BotsTeam/internal/models"
	"github.com/danieluxury88/BotsTeam/internal/projects"
	"github.com/danieluxury88/BotsTeam/internal/testrun"
)

const qabotSystemPrompt = `You are QABot, an expert software testing engineer and QA analyst.

Your job is to analyze recent code changes in a repository and suggest:
- What should be tested based on the changes
- Which areas are most at risk
- What types of tests are needed (unit, integration, e2e)
- Specific test scenarios to consider

Guidelines:
- Be specific and actionable, suggest concrete test cases rather than generic advice
- Prioritize high-risk areas (core logic, user-facing features, data handling)
- Consider edge cases and failure scenarios
- Format your response in clean Markdown with sections
- If you detect a test framework or existing tests, reference them
- When test execution results are included, address any failures first`

// QABot suggests what to test based on recent changes
func (s *Set) QABot(ctx context.Context, project projects.Project, params models.RunParams) models.BotResult {
	maxCommits := params.MaxCommits
	if maxCommits <= 0 {
		maxCommits = 100
	}

	read, err := gitlog.ReadCommits(ctx, project.Path, gitlog.ReadOptions{
		MaxCommits: maxCommits,
		Since:      params.Since,
		Until:      params.Until,
	})
	if err != nil {
		return models.Failure("qabot", fmt.Errorf("could not read git history: %w", err))
	}
	if len(read.Commits) == 0 {
		return models.Skipped("qabot", "no commits found to analyze")
	}

	filtered := gitlog.Filter(read.Commits)
	if len(filtered.Commits) == 0 {
		return models.Skipped("qabot", "all commits were merge or bot commits")
	}

	groups := gitlog.GroupAuto(filtered.Commits, 10)
	history := gitlog.FormatForLLM(groups)

	framework := testrun.Detect(project.Path)
	var run testrun.RunResult
	testContext := ""
	if framework.Name != "none" {
		run = testrun.Run(ctx, project.Path, framework)
		verdict := "FAILED"
		if run.Passed {
			verdict = "passed"
		}
		testContext = fmt.Sprintf("\nTest suite (%s, %d test file(s)) was executed and %s: %s\n",
			run.Framework, framework.TestFiles, verdict, run.Summary)
		if !run.Passed && run.Output != "" {
			testContext += "Test output tail:\n```\n" + run.Output + "\n```\n"
		}
	} else if n := countTestFiles(filtered.Commits); n > 0 {
		testContext = fmt.Sprintf("\nNote: %d test file(s) were touched in these commits, so a test suite exists.\n", n)
	}

	userPrompt := fmt.Sprintf(`Analyze the following recent changes in the **%s** repository and suggest what should be tested.

%s
%s
Provide a structured QA analysis with:

1. **Testing Summary** - one paragraph overview of what changed and testing implications
2. **Priority Test Areas** - the 3-5 most important things to test, with:
   - Area/Component name
   - Priority (High/Medium/Low)
   - Test type (Unit/Integration/E2E)
   - What to test specifically
   - Why it matters (risk/impact)
3. **Risk Areas** - parts of the codebase at highest risk from these changes
4. **Recommended Test Strategy** - approach to validating these changes

Be specific and actionable.`, project.Name, history, testContext)

	report, err := s.ai.ChatWithRetry(ctx, qabotSystemPrompt, userPrompt, 2048, params.Model)
	if err != nil {
		return models.Failure("qabot", fmt.Errorf("LLM call failed: %w", err))
	}

	summary := fmt.Sprintf("Test suggestions from %d recent commits", len(filtered.Commits))
	data := map[string]interface{}{
		"commits_analyzed": len(filtered.Commits),
		"test_framework":   framework.Name,
	}
	if framework.Name != "none" {
		outcome := "failed"
		if run.Passed {
			outcome = "passed"
		}
		summary += fmt.Sprintf("; %s suite %s", run.Framework, outcome)
		data["tests_passed"] = run.Passed
		data["test_exit_code"] = run.ExitCode
		data["test_summary"] = run.Summary
	}

	return models.BotResult{
		BotName:        "qabot",
		Status:         models.StatusSuccess,
		Summary:        summary,
		MarkdownReport: report,
		Data:           data,
		Timestamp:      time.Now().UTC(),
	}
}

// countTestFiles counts touched files that look like test sources
func countTestFiles(commits []models.CommitInfo) int {
	n := 0
	for _, c := range commits {
		for _, f := range c.FilesChanged {
			base := strings.ToLower(f)
			if strings.HasSuffix(base, "_test.go") ||
				strings.Contains(base, "/test/") ||
				strings.Contains(base, "/tests/") ||
				strings.HasSuffix(base, ".test.ts") ||
				strings.HasSuffix(base, ".test.js") ||
				strings.HasSuffix(base, "_test.py") ||
				strings.HasPrefix(base, "test_") {
				n++
			}
		}
	}
	return n
}
