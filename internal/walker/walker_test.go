package walker

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"connlint/internal/ir"
	"connlint/internal/parser"
)

func walk(t *testing.T, src string) (*Result, []ir.Issue) {
	t.Helper()
	parsed := parser.Parse(context.Background(), []byte(src), "")
	require.True(t, parsed.Usable(), "fixture source must parse")

	collector := ir.NewCollector(0)
	res := Walk(parsed, collector)
	return res, collector.Issues()
}

func issuesWithCode(issues []ir.Issue, code string) []ir.Issue {
	var out []ir.Issue
	for _, issue := range issues {
		if issue.Code == code {
			out = append(out, issue)
		}
	}
	return out
}

const fullConnector = `
# Acme CRM integration.
connector = {
  title: "Acme",

  connection: {
    fields: [],
    authorization: {}
  },

  test: lambda do |connection|
    get("/me")
  end,

  actions: {
    create_invoice: {
      input_fields: lambda do |object_definitions|
        object_definitions["invoice"]
      end,
      execute: lambda do |connection, input|
        post("/invoices", input)
      end,
      output_fields: lambda do |object_definitions|
        object_definitions["invoice"]
      end
    }
  },

  methods: {
    find_user: lambda do |id|
      get("/users/" + id)
    end
  }
}
`

func TestWalk_ExtractsConnector(t *testing.T) {
	res, issues := walk(t, fullConnector)

	require.NotNil(t, res.Root)
	assert.Equal(t, ir.KindConnector, res.Root.Kind)
	assert.Equal(t, "Acme", res.Root.Name)
	assert.Equal(t, "title,connection,test,actions,methods", res.Root.Meta["root_keys"])
	assert.Equal(t, "Acme CRM integration.", res.Root.Meta["docstring"])

	kinds := map[ir.Kind]bool{}
	res.Root.Walk(func(n *ir.Node) bool {
		kinds[n.Kind] = true
		return true
	})
	assert.True(t, kinds[ir.KindConnection])
	assert.True(t, kinds[ir.KindTest])
	assert.True(t, kinds[ir.KindAction])
	assert.True(t, kinds[ir.KindMethod])

	assert.Equal(t, 1, res.Stats["actions"])
	assert.Equal(t, 1, res.Stats["methods"])
	assert.Equal(t, []string{"find_user"}, res.DefinedMethods)

	assert.Empty(t, issuesWithCode(issues, ir.CodeActionMissingKeys))
	assert.Empty(t, issuesWithCode(issues, ir.CodeNoConnectorHash))
}

func TestWalk_RegistersHTTPCalls(t *testing.T) {
	res, _ := walk(t, fullConnector)

	assert.True(t, res.Graph.HasNode("http:GET /me"))
	assert.True(t, res.Graph.HasNode("http:POST /invoices"))
	assert.GreaterOrEqual(t, res.Stats["http_calls"], 2)

	var found bool
	for _, edge := range res.Graph.Edges() {
		if edge.From == "action:create_invoice#execute" && edge.To == "http:POST /invoices" {
			found = true
		}
	}
	assert.True(t, found, "execute body links to its HTTP node")
}

func TestWalk_MissingExecute(t *testing.T) {
	src := `
connector = {
  title: "Acme",
  connection: {},
  actions: {
    broken: {
      input_fields: lambda do |d| d end,
      output_fields: lambda do |d| d end
    }
  }
}
`
	_, issues := walk(t, src)

	missing := issuesWithCode(issues, ir.CodeActionMissingKeys)
	require.Len(t, missing, 1)
	assert.Equal(t, []string{"execute"}, missing[0].Context)
	assert.Contains(t, missing[0].Message, "execute")
}

func TestWalk_DuplicateAction(t *testing.T) {
	src := `
connector = {
  title: "Acme",
  connection: {},
  actions: {
    sync: {
      input_fields: lambda do |d| d end,
      execute: lambda do |c, i| get("/a") end,
      output_fields: lambda do |d| d end
    },
    sync: {
      input_fields: lambda do |d| d end,
      execute: lambda do |c, i| get("/b") end,
      output_fields: lambda do |d| d end
    }
  }
}
`
	res, issues := walk(t, src)

	dups := issuesWithCode(issues, ir.CodeDuplicateAction)
	require.Len(t, dups, 1, "only the second occurrence warns")
	assert.Equal(t, []string{"sync"}, dups[0].Context)

	// Both occurrences stay addressable in the graph.
	assert.True(t, res.Graph.HasNode("action:sync#execute"))
	assert.True(t, res.Graph.HasNode("action:sync@2#execute"))
}

func TestWalk_MethodDispatch(t *testing.T) {
	src := `
connector = {
  title: "Acme",
  actions: {
    sync: {
      input_fields: lambda do |d| d end,
      execute: lambda do |c, i|
        call(:find_user, i["id"])
      end,
      output_fields: lambda do |d| d end
    }
  },
  methods: {
    find_user: lambda do |id| get("/users") end
  }
}
`
	res, issues := walk(t, src)

	require.Len(t, res.Calls, 1)
	assert.Equal(t, "action:sync#execute", res.Calls[0].From)
	assert.Equal(t, "method:find_user", res.Calls[0].To)
	assert.Equal(t, "find_user", res.Calls[0].Name)
	assert.Empty(t, issuesWithCode(issues, ir.CodeDynamicCall))
}

func TestWalk_DynamicCallNoEdge(t *testing.T) {
	src := `
connector = {
  title: "Acme",
  connection: {},
  actions: {
    sync: {
      input_fields: lambda do |d| d end,
      execute: lambda do |c, i|
        call(i["method_name"])
      end,
      output_fields: lambda do |d| d end
    }
  }
}
`
	res, issues := walk(t, src)

	dynamic := issuesWithCode(issues, ir.CodeDynamicCall)
	require.Len(t, dynamic, 1)
	assert.Empty(t, res.Calls, "unresolvable dispatch records no call")
	for _, edge := range res.Graph.Edges() {
		assert.NotEqual(t, "dispatch", edge.Label)
	}
}

func TestWalk_NoConnectorHash(t *testing.T) {
	res, issues := walk(t, `x = {foo: 1}`)

	assert.Nil(t, res.Root)
	require.Len(t, issuesWithCode(issues, ir.CodeNoConnectorHash), 1)
}

func TestWalk_UnknownRootKey(t *testing.T) {
	src := `
connector = {
  title: "Acme",
  description: "ignored",
  custom_section: {},
  connection: {},
  actions: {}
}
`
	_, issues := walk(t, src)

	unknown := issuesWithCode(issues, ir.CodeUnknownRootKey)
	require.Len(t, unknown, 1, "title and description are exempt")
	assert.Equal(t, []string{"custom_section"}, unknown[0].Context)
	assert.Equal(t, ir.SeverityInfo, unknown[0].Severity)
}

func TestWalk_DangerousCalls(t *testing.T) {
	src := `
connector = {
  title: "Acme",
  connection: {},
  methods: {
    risky: lambda do |input|
      eval(input)
    end
  }
}
`
	_, issues := walk(t, src)
	require.Len(t, issuesWithCode(issues, ir.CodeDangerousCall), 1)
}

func TestWalk_SubshellScan(t *testing.T) {
	src := "connector = {\n  title: \"Acme\",\n  connection: {},\n  actions: {}\n}\n`ls -la`\n"
	_, issues := walk(t, src)
	require.Len(t, issuesWithCode(issues, ir.CodeDangerousXstr), 1)
}

func TestWalk_NotLambda(t *testing.T) {
	src := `
connector = {
  title: "Acme",
  test: "not a block",
  actions: {}
}
`
	_, issues := walk(t, src)
	require.Len(t, issuesWithCode(issues, ir.CodeNotLambda), 1)
}

func TestWalk_ErrorHandlerAndCheckpoint(t *testing.T) {
	src := `
connector = {
  title: "Acme",
  streams: {
    records: {
      poll: lambda do |c, i|
        get("/records")
        checkpoint()
      end
    }
  },
  methods: {
    wrapped: lambda do |c|
      after_error_response(429) do
        get("/retry")
      end
    end
  }
}
`
	res, _ := walk(t, src)
	assert.Equal(t, 1, res.Stats["streaming_checkpoints"])
	assert.Equal(t, 1, res.Stats["error_handlers"])
}

// Byte-identical input must yield byte-identical node ids.
func TestWalk_DeterministicIDs(t *testing.T) {
	collect := func() []string {
		res, _ := walk(t, fullConnector)
		var ids []string
		res.Root.Walk(func(n *ir.Node) bool {
			ids = append(ids, n.ID)
			return true
		})
		return ids
	}

	first := collect()
	require.NotEmpty(t, first)
	for i := 0; i < 3; i++ {
		assert.Equal(t, first, collect())
	}
}

func TestLocateConnector_PicksHighestScore(t *testing.T) {
	src := `
low = {title: "x", foo: 1}
high = {
  title: "Best",
  connection: {},
  actions: {},
  triggers: {}
}
`
	res, _ := walk(t, src)
	require.NotNil(t, res.Root)
	assert.Equal(t, "Best", res.Root.Name)
}

func TestLocateConnector_TieBreakFirstInPreOrder(t *testing.T) {
	src := `
first = {
  title: "First",
  connection: {},
  actions: {}
}
second = {
  title: "Second",
  connection: {},
  triggers: {}
}
`
	res, _ := walk(t, src)
	require.NotNil(t, res.Root)
	assert.Equal(t, "First", res.Root.Name, "equal scores keep the earlier mapping")
}
