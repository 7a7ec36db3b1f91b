package runenv

import (
	"fmt"
	"os"

	"github.com/google/uuid"
)

// Environment identifies the CI run this collector is reporting for. It is
// attached unchanged to every upload.
type Environment struct {
	CI        string  `json:"ci"`
	Key       string  `json:"key"`
	Number    *string `json:"number"`
	JobID     *string `json:"job_id"`
	Branch    *string `json:"branch"`
	CommitSHA *string `json:"commit_sha"`
	Message   *string `json:"message"`
	URL       *string `json:"url"`
	Collector string  `json:"collector"`
	Version   string  `json:"version"`
}

// Detect inspects the process environment and returns the identity record
// for the current CI run. Detection tries Buildkite, GitHub Actions and
// CircleCI before falling back to a generic environment keyed by a fresh
// uuid when only CI is set. Returns false when no CI environment is present.
func Detect(collector, version string) (Environment, bool) {
	detectors := []func() (Environment, bool){
		buildkiteEnv,
		githubActionsEnv,
		circleCIEnv,
		genericEnv,
	}

	for _, detect := range detectors {
		if env, ok := detect(); ok {
			env.Collector = collector
			env.Version = version
			return env, true
		}
	}
	return Environment{}, false
}

func buildkiteEnv() (Environment, bool) {
	buildID, ok := os.LookupEnv("BUILDKITE_BUILD_ID")
	if !ok {
		return Environment{}, false
	}

	return Environment{
		CI:        "buildkite",
		Key:       buildID,
		URL:       maybeVar("BUILDKITE_BUILD_URL"),
		Branch:    maybeVar("BUILDKITE_BRANCH"),
		CommitSHA: maybeVar("BUILDKITE_COMMIT"),
		Number:    maybeVar("BUILDKITE_BUILD_NUMBER"),
		JobID:     maybeVar("BUILDKITE_JOB_ID"),
		Message:   maybeVar("BUILDKITE_MESSAGE"),
	}, true
}

func githubActionsEnv() (Environment, bool) {
	action, okAction := os.LookupEnv("GITHUB_ACTION")
	runNumber, okNumber := os.LookupEnv("GITHUB_RUN_NUMBER")
	runAttempt, okAttempt := os.LookupEnv("GITHUB_RUN_ATTEMPT")
	if !okAction || !okNumber || !okAttempt {
		return Environment{}, false
	}

	env := Environment{
		CI:        "github_actions",
		Key:       fmt.Sprintf("%s-%s-%s", action, runNumber, runAttempt),
		Branch:    maybeVar("GITHUB_REF"),
		CommitSHA: maybeVar("GITHUB_SHA"),
		Number:    &runNumber,
	}

	if repo, ok := os.LookupEnv("GITHUB_REPOSITORY"); ok {
		if runID, ok := os.LookupEnv("GITHUB_RUN_ID"); ok {
			url := fmt.Sprintf("https://github.com/%s/actions/runs/%s", repo, runID)
			env.URL = &url
		}
	}

	return env, true
}

func circleCIEnv() (Environment, bool) {
	buildNum, okBuild := os.LookupEnv("CIRCLE_BUILD_NUM")
	workflowID, okWorkflow := os.LookupEnv("CIRCLE_WORKFLOW_ID")
	if !okBuild || !okWorkflow {
		return Environment{}, false
	}

	return Environment{
		CI:        "circleci",
		Key:       fmt.Sprintf("%s-%s", workflowID, buildNum),
		URL:       maybeVar("CIRCLE_BUILD_URL"),
		Branch:    maybeVar("CIRCLE_BRANCH"),
		CommitSHA: maybeVar("CIRCLE_SHA1"),
		Number:    &buildNum,
	}, true
}

func genericEnv() (Environment, bool) {
	if _, ok := os.LookupEnv("CI"); !ok {
		return Environment{}, false
	}

	return Environment{
		CI:  "generic",
		Key: uuid.NewString(),
	}, true
}

func maybeVar(key string) *string {
	if value, ok := os.LookupEnv(key); ok {
		return &value
	}
	return nil
}
