// Package report renders the end-of-run summary in multiple formats. The
// summary is printed even when every page failed: the learner needs to know
// what the run did (or did not do) to their deck either way.
package report
