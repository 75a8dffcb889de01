package mcp

import (
	"context"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

const serverInstructions = `knitcount tracks knitting and crochet progress as Projects -> Parts -> Counters.

Core concepts:
- Project: one piece of work (a sweater, a blanket). Craft type is knitting or crochet.
- Part: a subdivision of a project (Back, Sleeve). One part per project is current.
- Counter: a named tally owned by a part. Every part has a Global counter (rows) and a Stitch counter.
- Link: a normal counter with is_globally_linked=true steps whenever the Global counter steps.
- Session: a working view of one project, its active part and that part's counters.

Default workflow:
1) list_projects or search_projects; create_project starts a ready-to-use project.
2) open_session(project_id) to get the active part and its counters.
3) increment_counter / decrement_counter with the session_id and counter_id.
   Stepping the Global counter also steps every linked counter in one write.
4) On CONFLICT, call refresh_session and retry; another session changed the counter.
5) close_session when done.

Docs:
- knitcount://docs/index
- knitcount://docs/concepts
- knitcount://docs/workflows/counting
`

type docResource struct {
	URI         string
	Name        string
	Title       string
	Description string
	Content     string
}

var docResources = []docResource{
	{
		URI:         "knitcount://docs/index",
		Name:        "docs_index",
		Title:       "knitcount docs index",
		Description: "Entry point: what the server stores and which doc to read.",
		Content: `# knitcount: Docs Index

## Quick start

1. ` + "`create_project`" + ` with a name (or blank for "Project N").
2. ` + "`open_session`" + ` on the project id.
3. ` + "`increment_counter`" + ` on the Global counter once per finished row.

## Docs

- ` + "`knitcount://docs/concepts`" + `: entities, counter types and invariants.
- ` + "`knitcount://docs/workflows/counting`" + `: the counting loop, linking and conflicts.

## Limitations

- Linking is one level deep: only the Global counter drives other counters.
- Values never wrap; a step that would leave the 64-bit range fails with OVERFLOW.
`,
	},
	{
		URI:         "knitcount://docs/concepts",
		Name:        "docs_concepts",
		Title:       "Concepts and invariants",
		Description: "Projects, parts, counter types, auto reset and deletion rules.",
		Content: `# Concepts and invariants

## Entities

- **Project**: name, description, craft type (knitting, crochet), completed flag.
- **Part**: belongs to one project. At most one part per project is current.
- **Counter**: belongs to one part. Fields: value, increment_by (default 1),
  is_globally_linked, reset_row, max_resets, num_resets, version.

## Counter types

- **global**: one per part, created with the part. Counts rows and drives linked counters.
- **stitch**: one per part, created with the part. Never linked.
- **normal**: user counters. Only these can be linked or deleted.

## Auto reset

When reset_row > 0 and an increment reaches reset_row, the value returns to 0
and num_resets grows by one, until max_resets resets have happened
(max_resets 0 means no limit). Decrements never reset.

## Deletion

- Global and Stitch counters are deleted with their part, never on their own.
- ` + "`delete_project`" + ` removes counters, then parts, then the project, in one transaction.
`,
	},
	{
		URI:         "knitcount://docs/workflows/counting",
		Name:        "docs_workflow_counting",
		Title:       "Workflow: counting",
		Description: "Session loop: open, step counters, switch parts, handle conflicts.",
		Content: `# Workflow: counting

1) ` + "`open_session(project_id)`" + ` returns the session id, parts, active part and counters.
2) ` + "`increment_counter(session_id, counter_id)`" + ` returns the changed counters
   and the full counter list. The Global counter also steps every linked counter.
3) ` + "`toggle_link(session_id, counter_id)`" + ` to make a normal counter follow the Global counter.
4) ` + "`select_part(session_id, part_id)`" + ` to move to another part; it becomes current.

## Conflicts

Every counter carries a version. If another session wrote the counter since
this session loaded it, the step fails with CONFLICT and nothing is written.
Call ` + "`refresh_session`" + ` and repeat the step.

## Session ID passing

- Pass ` + "`session_id`" + ` as a tool argument.
- Stdio clients may set ` + "`_meta.session_id`" + ` instead.
`,
	},
}

func registerDocResources(server *sdkmcp.Server) {
	for _, doc := range docResources {
		doc := doc

		server.AddResource(&sdkmcp.Resource{
			URI:         doc.URI,
			Name:        doc.Name,
			Title:       doc.Title,
			Description: doc.Description,
			MIMEType:    "text/markdown",
			Size:        int64(len(doc.Content)),
		}, func(_ context.Context, req *sdkmcp.ReadResourceRequest) (*sdkmcp.ReadResourceResult, error) {
			uri := doc.URI
			if req != nil && req.Params != nil && req.Params.URI != "" {
				uri = req.Params.URI
			}
			return &sdkmcp.ReadResourceResult{
				Contents: []*sdkmcp.ResourceContents{{
					URI:      uri,
					MIMEType: "text/markdown",
					Text:     doc.Content,
				}},
			}, nil
		})
	}
}
