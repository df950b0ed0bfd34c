package app

import (
	"context"
	"fmt"
	"os"

	"golang.org/x/net/html"

	"github.com/digimatspa/sertit-utils/internal/config"
	"github.com/digimatspa/sertit-utils/logs"
)

// ReadOptions controls how a member read from an archive is rendered.
type ReadOptions struct {
	// AsXML parses the member as an XML document before printing it.
	AsXML bool
	// AsHTML parses the member as an HTML document before printing it.
	AsHTML bool
}

// ExecuteReadCommand prints the first archive member matching the pattern
// to standard output, optionally parsing it as XML or HTML first.
func ExecuteReadCommand(ctx context.Context, cfg *config.Config, archivePath, pattern string, opts ReadOptions) {
	ctx, service, teardown := setup(ctx, cfg)
	defer teardown()

	switch {
	case opts.AsXML:
		document, err := service.ReadMemberXML(archivePath, pattern)
		if err != nil {
			logs.Fatalf(ctx, "Failed to read member: %v", err)
		}

		document.Indent(2)

		if _, err = document.WriteTo(os.Stdout); err != nil {
			logs.Fatalf(ctx, "Failed to write document: %v", err)
		}
	case opts.AsHTML:
		document, err := service.ReadMemberHTML(archivePath, pattern)
		if err != nil {
			logs.Fatalf(ctx, "Failed to read member: %v", err)
		}

		if err = html.Render(os.Stdout, document); err != nil {
			logs.Fatalf(ctx, "Failed to write document: %v", err)
		}
	default:
		content, err := service.ReadMember(archivePath, pattern)
		if err != nil {
			logs.Fatalf(ctx, "Failed to read member: %v", err)
		}

		if _, err = os.Stdout.Write(content); err != nil {
			logs.Fatalf(ctx, "Failed to write member: %v", err)
		}
	}
}

// ExecuteMembersCommand lists member names contained in an archive,
// optionally filtered by a pattern.
func ExecuteMembersCommand(ctx context.Context, cfg *config.Config, archivePath, pattern string, all bool) {
	ctx, service, teardown := setup(ctx, cfg)
	defer teardown()

	var (
		members []string
		err     error
	)

	if pattern == "" {
		members, err = service.ListMembers(archivePath)
	} else {
		members, err = service.FindMemberPath(archivePath, pattern, all)
	}

	if err != nil {
		logs.Fatalf(ctx, "Failed to list members: %v", err)
	}

	for _, member := range members {
		fmt.Println(member)
	}
}
