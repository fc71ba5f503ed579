package eljobfile

import (
	"context"
	"crypto/sha256"
	"errors"
	"sync"

	"github.com/exograd/go-eventline/elmodel"
	"github.com/exograd/go-eventline/internal"

	"github.com/launchdarkly/go-sdk-common/v3/ldlog"

	cache "github.com/patrickmn/go-cache"
)

// JobDeployer is the subset of the Eventline client API that a Deployer uses. It is implemented by
// eventline.Client.
type JobDeployer interface {
	// DeployJobs creates or updates a batch of jobs in a single atomic operation.
	DeployJobs(ctx context.Context, specs []elmodel.JobSpec) ([]elmodel.Job, error)
}

// ReloaderFactory is a function type used with UseReloader, to specify a mechanism for detecting
// when job files should be reloaded. Its standard implementation is elfilewatch.WatchFiles.
type ReloaderFactory func(paths []string, loggers ldlog.Loggers, reload func(), closeCh <-chan struct{}) error

// Option is the interface for optional configuration parameters that can be passed to New. These
// include FilePaths, UseReloader, and Loggers.
type Option interface {
	apply(d *Deployer) error
}

type filePathsOption struct {
	paths []string
}

func (o filePathsOption) apply(d *Deployer) error {
	abs, err := absFilePaths(o.paths)
	if err != nil {
		// COVERAGE: there's no reliable cross-platform way to simulate an invalid path in unit tests
		return err
	}
	d.absFilePaths = append(d.absFilePaths, abs...)
	return nil
}

// FilePaths creates an option for New, to specify the input job definition files. The paths may be
// any number of absolute or relative file paths.
func FilePaths(paths ...string) Option {
	return filePathsOption{paths}
}

type reloaderOption struct {
	factory ReloaderFactory
}

func (o reloaderOption) apply(d *Deployer) error {
	d.reloaderFactory = o.factory
	return nil
}

// UseReloader creates an option for New, to specify a mechanism for reloading the job files when
// they change. It is normally used with the elfilewatch package:
//
//	deployer, err := eljobfile.New(client,
//	    eljobfile.FilePaths(filePaths...),
//	    eljobfile.UseReloader(elfilewatch.WatchFiles))
func UseReloader(factory ReloaderFactory) Option {
	return reloaderOption{factory}
}

type loggersOption struct {
	loggers ldlog.Loggers
}

func (o loggersOption) apply(d *Deployer) error {
	d.loggers = o.loggers
	return nil
}

// Loggers creates an option for New, to specify where to send log output.
func Loggers(loggers ldlog.Loggers) Option {
	return loggersOption{loggers}
}

// Deployer loads job specifications from definition files and deploys them through the client. See
// the package documentation for the file format and the deployment behavior.
type Deployer struct {
	client          JobDeployer
	absFilePaths    []string
	reloaderFactory ReloaderFactory
	loggers         ldlog.Loggers
	isInitialized   internal.AtomicBoolean
	readyCh         chan<- struct{}
	readyOnce       sync.Once
	closeOnce       sync.Once
	closeReloaderCh chan struct{}

	// deployed memoizes a digest of each specification that has been deployed, keyed by job name,
	// so that a reload only deploys the jobs whose definitions actually changed. The reloader
	// mechanism produces a redundant load right after startup, which the memo turns into a no-op.
	deployed *cache.Cache
}

// New creates a Deployer that deploys jobs with the given client. Use FilePaths to specify the
// definition files; they are not loaded until Start is called.
func New(client JobDeployer, options ...Option) (*Deployer, error) {
	if client == nil {
		return nil, errors.New("client must not be nil")
	}
	d := &Deployer{
		client:   client,
		deployed: cache.New(cache.NoExpiration, 0),
	}
	for _, o := range options {
		if err := o.apply(d); err != nil {
			return nil, err
		}
	}
	d.loggers.SetPrefix("JobFiles:")
	return d, nil
}

// IsInitialized returns true once the deployer has deployed the full set of specifications at
// least once.
func (d *Deployer) IsInitialized() bool {
	return d.isInitialized.Get()
}

// Start loads the definition files and deploys the jobs they specify, then closes closeWhenReady.
//
// Without a reloader, closeWhenReady is closed as soon as the first deployment attempt finishes,
// whether or not it succeeded; check IsInitialized to distinguish. With a reloader, a failed first
// attempt leaves closeWhenReady open, and it is closed by the first reload that succeeds.
func (d *Deployer) Start(closeWhenReady chan<- struct{}) {
	d.readyCh = closeWhenReady
	d.reload()

	if d.reloaderFactory == nil {
		d.signalStartComplete(d.isInitialized.Get())
		return
	}

	d.closeReloaderCh = make(chan struct{})
	if err := d.reloaderFactory(d.absFilePaths, d.loggers, d.reload, d.closeReloaderCh); err != nil {
		d.loggers.Errorf("Unable to start reloader: %s", err)
	}
}

// reload rereads all of the definition files and deploys the specifications that changed since the
// last successful deployment. If any file cannot be loaded or parsed, or if the deployment fails,
// nothing is recorded and the next reload retries from the same state.
func (d *Deployer) reload() {
	specs, err := LoadFiles(d.absFilePaths)
	if err != nil {
		d.loggers.Errorf("Unable to load jobs: %s", err)
		return
	}

	changed, digests, err := d.changedSpecs(specs)
	if err != nil {
		d.loggers.Errorf("Unable to deploy jobs: %s", err) // COVERAGE: see changedSpecs
		return
	}
	if len(changed) == 0 {
		d.loggers.Debugf("Jobs are already up to date")
		d.signalStartComplete(true)
		return
	}

	if _, err := d.client.DeployJobs(context.Background(), changed); err != nil {
		d.loggers.Errorf("Unable to deploy jobs: %s", err)
		return
	}
	for _, spec := range changed {
		d.deployed.Set(spec.Name, digests[spec.Name], cache.NoExpiration)
	}
	d.loggers.Infof("Deployed %d jobs", len(changed))
	d.signalStartComplete(true)
}

// changedSpecs filters out the specifications whose digest matches what was last deployed. It also
// returns the digests of the specifications it kept, so that reload can record them once the
// deployment has succeeded.
func (d *Deployer) changedSpecs(specs []elmodel.JobSpec) ([]elmodel.JobSpec, map[string][sha256.Size]byte, error) {
	var changed []elmodel.JobSpec
	digests := make(map[string][sha256.Size]byte)
	for _, spec := range specs {
		data, err := spec.MarshalJSON()
		if err != nil {
			// COVERAGE: specifications read from files are always marshalable
			return nil, nil, err
		}
		digest := sha256.Sum256(data)
		if prev, found := d.deployed.Get(spec.Name); found && prev.([sha256.Size]byte) == digest {
			continue
		}
		changed = append(changed, spec)
		digests[spec.Name] = digest
	}
	return changed, digests, nil
}

func (d *Deployer) signalStartComplete(succeeded bool) {
	d.readyOnce.Do(func() {
		d.isInitialized.Set(succeeded)
		if d.readyCh != nil {
			close(d.readyCh)
		}
	})
}

// Close stops the reloader, if any. It is safe to call Close more than once.
func (d *Deployer) Close() error {
	d.closeOnce.Do(func() {
		if d.closeReloaderCh != nil {
			close(d.closeReloaderCh)
		}
	})
	return nil
}
