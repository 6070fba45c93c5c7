/*
Package service orchestrates sandboxed file operations.

# Overview

Service glues the subsystems together: paths confines every operation to the
sandbox root, locks serializes mutations per canonical relative path, cache
holds recently read bytes, handlers decodes and encodes content by file
family, and storage performs the actual I/O against a local tree or a remote
read-only mirror.

# Error contract

Read and WriteBytes propagate typed fserr errors. Every other operation
captures failures and reports them in the result: Success false plus a
Message describing what went wrong. List, Tree, and Search return empty
results on failure since their result types carry no status fields.

# Usage

	svc, err := service.New("/srv/sandbox",
		service.WithLogger(logger),
		service.WithMetrics(metrics),
	)
	if err != nil {
		return err
	}
	defer svc.Close()

	res := svc.Write(ctx, types.NewWriteRequest("notes/today.md", "# Plan\n"))
	if !res.Success {
		return errors.New(res.Message)
	}
	out, err := svc.Read(ctx, types.NewReadRequest("notes/today.md"))
*/
package service
