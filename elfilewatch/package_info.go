// Package elfilewatch allows the job file deployer to reload its definition files automatically
// whenever one of them changes.
//
// It should be used in conjunction with the [github.com/exograd/go-eventline/eljobfile] package:
//
//	deployer, err := eljobfile.New(client,
//	    eljobfile.FilePaths(filePaths...),
//	    eljobfile.UseReloader(elfilewatch.WatchFiles))
//
// The two packages are separate so as to avoid bringing additional dependencies for users who
// do not need automatic reloading.
package elfilewatch
