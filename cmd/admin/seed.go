package main

import "fmt"

type sampleNote struct {
	Title   string
	Content string
}

var demoNotes = []sampleNote{
	{
		Title: "Cell biology",
		Content: "Mitochondria are the site of aerobic respiration and produce most of the cell's ATP. " +
			"Ribosomes translate messenger RNA into proteins. The nucleus stores DNA and controls gene expression. " +
			"The cell membrane is a phospholipid bilayer that regulates what enters and leaves the cell.",
	},
	{
		Title: "Grammar: tenses",
		Content: "The simple past describes finished actions (I went to the store yesterday). " +
			"The present perfect links past events to now (She has seen that movie before). " +
			"The past continuous describes an action in progress when another happened (They were playing football when it started raining).",
	},
	{
		Title: "World capitals",
		Content: "Paris is the capital of France. Canberra, not Sydney, is the capital of Australia. " +
			"Ottawa is the capital of Canada. Brasilia replaced Rio de Janeiro as Brazil's capital in 1960.",
	},
}

// seedDemo creates a demo account and fills it with sample notes so the
// quiz flow can be tried right away.
func (a *app) seedDemo(username string) error {
	password, err := a.readPassword()
	if err != nil {
		return err
	}
	user, err := a.auth.Register(username, password)
	if err != nil {
		return err
	}
	for _, n := range demoNotes {
		if _, err := a.notes.CreateNote(user.ID, n.Title, n.Content); err != nil {
			return fmt.Errorf("seed note %q: %w", n.Title, err)
		}
	}
	fmt.Fprintf(a.out, "seeded user %q with %d notes\n", user.Username, len(demoNotes))
	return nil
}
