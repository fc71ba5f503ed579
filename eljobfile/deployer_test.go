package eljobfile

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/exograd/go-eventline/elmodel"
	"github.com/exograd/go-eventline/internal/sharedtest"

	"github.com/launchdarkly/go-sdk-common/v3/ldlog"
	"github.com/launchdarkly/go-sdk-common/v3/ldlogtest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type capturingDeployer struct {
	deploys chan []elmodel.JobSpec
	err     error
}

func newCapturingDeployer() *capturingDeployer {
	return &capturingDeployer{deploys: make(chan []elmodel.JobSpec, 10)}
}

func (c *capturingDeployer) DeployJobs(ctx context.Context, specs []elmodel.JobSpec) ([]elmodel.Job, error) {
	c.deploys <- specs
	if c.err != nil {
		return nil, c.err
	}
	jobs := make([]elmodel.Job, 0, len(specs))
	for _, spec := range specs {
		jobs = append(jobs, elmodel.Job{ID: "id-" + spec.Name, Spec: spec})
	}
	return jobs, nil
}

type deployerTestParams struct {
	deployer       *Deployer
	client         *capturingDeployer
	mockLog        *ldlogtest.MockLog
	closeWhenReady chan struct{}
}

func (p deployerTestParams) waitForStart() {
	p.deployer.Start(p.closeWhenReady)
	<-p.closeWhenReady
}

func (p deployerTestParams) requireDeploy(t *testing.T) []elmodel.JobSpec {
	return sharedtest.RequireValue(t, p.client.deploys, time.Second)
}

func withDeployerTestParams(t *testing.T, options []Option, action func(p deployerTestParams)) {
	mockLog := ldlogtest.NewMockLog()
	mockLog.Loggers.SetMinLevel(ldlog.Debug)
	defer mockLog.DumpIfTestFailed(t)
	client := newCapturingDeployer()
	deployer, err := New(client, append(options, Loggers(mockLog.Loggers))...)
	require.NoError(t, err)
	defer func() { _ = deployer.Close() }()
	action(deployerTestParams{deployer, client, mockLog, make(chan struct{})})
}

func TestNewRejectsNilClient(t *testing.T) {
	deployer, err := New(nil)
	require.Error(t, err)
	assert.Nil(t, deployer)
}

func TestDeployerDeploysJobsOnStart(t *testing.T) {
	file1 := `{"name": "job-1", "steps": [{"code": "make build"}]}`
	file2 := `
---
jobs:
  - name: job-2
    steps:
      - code: make test
`
	sharedtest.WithTempFileContaining([]byte(file1), func(filename1 string) {
		sharedtest.WithTempFileContaining([]byte(file2), func(filename2 string) {
			withDeployerTestParams(t, []Option{FilePaths(filename1, filename2)}, func(p deployerTestParams) {
				p.waitForStart()
				require.True(t, p.deployer.IsInitialized())

				specs := p.requireDeploy(t)
				require.Len(t, specs, 2)
				assert.Equal(t, "job-1", specs[0].Name)
				assert.Equal(t, "job-2", specs[1].Name)

				p.mockLog.AssertMessageMatch(t, true, ldlog.Info, "Deployed 2 jobs")
			})
		})
	})
}

func TestDeployerWithNoFilesStartsWithoutDeploying(t *testing.T) {
	withDeployerTestParams(t, nil, func(p deployerTestParams) {
		p.waitForStart()
		assert.True(t, p.deployer.IsInitialized())
		sharedtest.AssertNoMoreValues(t, p.client.deploys, time.Millisecond*50)
	})
}

func TestDeployerSignalsReadyOnLoadFailure(t *testing.T) {
	sharedtest.WithTempFileContaining([]byte(`{"name": "my-job"}`), func(filename string) {
		withDeployerTestParams(t, []Option{FilePaths(filename)}, func(p deployerTestParams) {
			p.waitForStart()
			assert.False(t, p.deployer.IsInitialized())
			p.mockLog.AssertMessageMatch(t, true, ldlog.Error, "Unable to load jobs")
			sharedtest.AssertNoMoreValues(t, p.client.deploys, time.Millisecond*50)
		})
	})
}

func TestDeployerSignalsReadyOnMissingFile(t *testing.T) {
	sharedtest.WithTempFileContaining([]byte{}, func(filename string) {
		require.NoError(t, os.Remove(filename))

		withDeployerTestParams(t, []Option{FilePaths(filename)}, func(p deployerTestParams) {
			p.waitForStart()
			assert.False(t, p.deployer.IsInitialized())
		})
	})
}

func TestDeployerSignalsReadyOnDeployFailure(t *testing.T) {
	data := `{"name": "my-job", "steps": [{"code": "make test"}]}`
	sharedtest.WithTempFileContaining([]byte(data), func(filename string) {
		withDeployerTestParams(t, []Option{FilePaths(filename)}, func(p deployerTestParams) {
			p.client.err = errors.New("service unavailable")
			p.waitForStart()
			assert.False(t, p.deployer.IsInitialized())
			p.mockLog.AssertMessageMatch(t, true, ldlog.Error, "Unable to deploy jobs: service unavailable")
		})
	})
}

func TestDeployerRejectsDuplicateJobNames(t *testing.T) {
	file1 := `{"name": "my-job", "steps": [{"code": "make build"}]}`
	file2 := `{"name": "my-job", "steps": [{"code": "make test"}]}`
	sharedtest.WithTempFileContaining([]byte(file1), func(filename1 string) {
		sharedtest.WithTempFileContaining([]byte(file2), func(filename2 string) {
			withDeployerTestParams(t, []Option{FilePaths(filename1, filename2)}, func(p deployerTestParams) {
				p.waitForStart()
				require.False(t, p.deployer.IsInitialized())
				p.mockLog.AssertMessageMatch(t, true, ldlog.Error, "specified by multiple files")
			})
		})
	})
}

func TestDeployerSkipsUnchangedJobsOnReload(t *testing.T) {
	data := `{"name": "my-job", "steps": [{"code": "make test"}]}`
	sharedtest.WithTempFileContaining([]byte(data), func(filename string) {
		var doReload func()
		reloader := func(paths []string, loggers ldlog.Loggers, reload func(), closeCh <-chan struct{}) error {
			doReload = reload
			return nil
		}
		withDeployerTestParams(t, []Option{FilePaths(filename), UseReloader(reloader)}, func(p deployerTestParams) {
			p.waitForStart()
			require.True(t, p.deployer.IsInitialized())
			p.requireDeploy(t)

			doReload()
			sharedtest.AssertNoMoreValues(t, p.client.deploys, time.Millisecond*50)
			p.mockLog.AssertMessageMatch(t, true, ldlog.Debug, "already up to date")
		})
	})
}

func TestDeployerRedeploysChangedJobsOnReload(t *testing.T) {
	file1 := `{"name": "job-1", "steps": [{"code": "make build"}]}`
	file2 := `{"name": "job-2", "steps": [{"code": "make test"}]}`
	sharedtest.WithTempFileContaining([]byte(file1), func(filename1 string) {
		sharedtest.WithTempFileContaining([]byte(file2), func(filename2 string) {
			var doReload func()
			reloader := func(paths []string, loggers ldlog.Loggers, reload func(), closeCh <-chan struct{}) error {
				doReload = reload
				return nil
			}
			options := []Option{FilePaths(filename1, filename2), UseReloader(reloader)}
			withDeployerTestParams(t, options, func(p deployerTestParams) {
				p.waitForStart()
				require.Len(t, p.requireDeploy(t), 2)

				changed := `{"name": "job-2", "steps": [{"code": "make check"}]}`
				require.NoError(t, os.WriteFile(filename2, []byte(changed), 0600))
				doReload()

				specs := p.requireDeploy(t)
				require.Len(t, specs, 1)
				assert.Equal(t, "job-2", specs[0].Name)
				assert.Equal(t, "make check", specs[0].Steps[0].Code)
			})
		})
	})
}

func TestDeployerBecomesReadyOnFirstSuccessfulReload(t *testing.T) {
	sharedtest.WithTempFileContaining([]byte(`{"name": "my-job"}`), func(filename string) {
		var doReload func()
		reloader := func(paths []string, loggers ldlog.Loggers, reload func(), closeCh <-chan struct{}) error {
			doReload = reload
			return nil
		}
		withDeployerTestParams(t, []Option{FilePaths(filename), UseReloader(reloader)}, func(p deployerTestParams) {
			p.deployer.Start(p.closeWhenReady)
			select {
			case <-p.closeWhenReady:
				require.FailNow(t, "deployer should not be ready before a successful deployment")
			default:
			}
			assert.False(t, p.deployer.IsInitialized())

			valid := `{"name": "my-job", "steps": [{"code": "make test"}]}`
			require.NoError(t, os.WriteFile(filename, []byte(valid), 0600))
			doReload()

			<-p.closeWhenReady
			assert.True(t, p.deployer.IsInitialized())
			p.requireDeploy(t)
		})
	})
}

func TestDeployerReloaderFailureDoesNotPreventStarting(t *testing.T) {
	e := errors.New("sorry")
	reloader := func(paths []string, loggers ldlog.Loggers, reload func(), closeCh <-chan struct{}) error {
		return e
	}
	data := `{"name": "my-job", "steps": [{"code": "make test"}]}`
	sharedtest.WithTempFileContaining([]byte(data), func(filename string) {
		withDeployerTestParams(t, []Option{FilePaths(filename), UseReloader(reloader)}, func(p deployerTestParams) {
			p.waitForStart()
			assert.True(t, p.deployer.IsInitialized())
			assert.Len(t, p.mockLog.GetOutput(ldlog.Error), 1)
		})
	})
}

func TestDeployerCloseStopsReloader(t *testing.T) {
	var gotCloseCh <-chan struct{}
	reloader := func(paths []string, loggers ldlog.Loggers, reload func(), closeCh <-chan struct{}) error {
		gotCloseCh = closeCh
		return nil
	}
	withDeployerTestParams(t, []Option{UseReloader(reloader)}, func(p deployerTestParams) {
		p.waitForStart()
		require.NotNil(t, gotCloseCh)

		require.NoError(t, p.deployer.Close())
		select {
		case <-gotCloseCh:
		case <-time.After(time.Second):
			require.FailNow(t, "reloader close channel was not closed")
		}
		require.NoError(t, p.deployer.Close()) // closing twice is harmless
	})
}
