/*
Package formflow drives multi-page form wizards whose branching lives in a remote
decision service (a webhook).

Each page of a flow is backed by one session record kept under a fixed storage key.
On page load the driver runs an idempotent initialization round trip; afterwards form
submissions and discrete actions each compose request variables from the session, the
page and the triggering element, POST them to the flow's webhook, merge the answer into
the session and navigate to the next page.

# Concept

The flow configuration document names the webhook and the per-page defaults:

	{
	  "route": "oracle",
	  "initialization": {
	    "webhook_url": "https://hooks.example.com/oracle",
	    "start_page": "step2.html"
	  },
	  "steps_by_page": {
	    "step2.html": {
	      "request_variables": {"step": "question"},
	      "next_step_fallback": "step3.html"
	    }
	  }
	}

The decision service answers with variables to merge and, usually, the next page.
Variables accumulate across round trips: keys are added or overwritten, never removed.

# Usage

	flow, err := formflow.New("./oracle/config.json",
		formflow.WithStore(file.New(".formflow")),
	)
	if err != nil {
		log.Fatal(err)
	}

	ctx := context.Background()
	out, err := flow.Load(ctx, domain.Page{File: "index.html", Landing: true})
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println("go to", out.Redirect)

Only one request is in flight per flow at a time. A trigger that arrives while another
is running is dropped and reported through Outcome.Dropped.

Hosts provided with this module are the formflow CLI (cmd/formflow) and the stateless
HTTP adapter (pkg/adapters/http).
*/
package formflow
