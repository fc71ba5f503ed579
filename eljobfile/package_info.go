// Package eljobfile deploys Eventline jobs from definition files.
//
// A definition file holds either a single job specification, or an object with a "jobs" property
// listing any number of specifications. Files may contain either JSON or YAML; if the first
// non-whitespace character is '{', the file is parsed as JSON, otherwise it is parsed as YAML:
//
//	name: nightly-tests
//	trigger:
//	  event: github/push
//	steps:
//	  - code: make test
//
// Use LoadFile or LoadFiles to read specifications and deploy them yourself, or create a Deployer
// to keep a project synchronized with a set of files:
//
//	deployer, err := eljobfile.New(client,
//	    eljobfile.FilePaths("./jobs/nightly.yaml", "./jobs/release.yaml"))
//	if err != nil { ... }
//	closeWhenReady := make(chan struct{})
//	deployer.Start(closeWhenReady)
//	<-closeWhenReady
//
// The files are not actually loaded until Start is called. With a reloader (see UseReloader and
// the elfilewatch package), the deployer watches the files and deploys the jobs again whenever
// their content changes; specifications that have not changed since the last deployment are
// skipped. It is an error for the same job name to appear more than once, either in a single file
// or across multiple files.
//
// Jobs are only ever created or updated. Removing a specification from a file does not delete the
// corresponding job; use Client.DeleteJob for that.
package eljobfile
