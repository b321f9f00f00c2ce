package dataset

import "github.com/voicejournal/promptlab/internal/models"

// corpus is the built-in seed material: one scenario per role, each with two
// wins, one drain, one focus item and four categorized tasks.
var corpus = []models.Scenario{
	{
		Role:        "product designer",
		Wins:        []string{"Finalized the onboarding flow", "Polished the empty state illustrations"},
		Drains:      []string{"Context switching between design reviews"},
		FutureFocus: []string{"Prepare the handoff for engineering"},
		Tasks: []models.Task{
			{TaskText: "Finalize onboarding flow", Category: models.CategoryCreating},
			{TaskText: "Polish empty state illustrations", Category: models.CategoryCreating},
			{TaskText: "Design review with mobile team", Category: models.CategoryCollaborating},
			{TaskText: "Send handoff notes to engineering", Category: models.CategoryCommunicating},
		},
	},
	{
		Role:        "frontend engineer",
		Wins:        []string{"Shipped the landing page update", "Fixed the auth redirect bug"},
		Drains:      []string{"Back-to-back standups"},
		FutureFocus: []string{"Refactor the profile settings module"},
		Tasks: []models.Task{
			{TaskText: "Ship landing page update", Category: models.CategoryCreating},
			{TaskText: "Fix auth redirect bug", Category: models.CategoryCreating},
			{TaskText: "Daily standup meeting", Category: models.CategoryCollaborating},
			{TaskText: "Review PR for analytics events", Category: models.CategoryCollaborating},
		},
	},
	{
		Role:        "marketing manager",
		Wins:        []string{"Drafted the Q2 campaign brief", "Locked the influencer shortlist"},
		Drains:      []string{"A long vendor negotiation call"},
		FutureFocus: []string{"Get legal approval for ad copy"},
		Tasks: []models.Task{
			{TaskText: "Draft Q2 campaign brief", Category: models.CategoryCreating},
			{TaskText: "Finalize influencer shortlist", Category: models.CategoryOrganizing},
			{TaskText: "Vendor negotiation call", Category: models.CategoryCollaborating},
			{TaskText: "Email legal about ad copy review", Category: models.CategoryCommunicating},
		},
	},
	{
		Role:        "operations lead",
		Wins:        []string{"Updated the weekly staffing plan", "Cleared the backlog of approvals"},
		Drains:      []string{"Chasing missing timesheets"},
		FutureFocus: []string{"Automate the approval workflow"},
		Tasks: []models.Task{
			{TaskText: "Update weekly staffing plan", Category: models.CategoryOrganizing},
			{TaskText: "Approve pending time off requests", Category: models.CategoryOrganizing},
			{TaskText: "Follow up on missing timesheets", Category: models.CategoryCommunicating},
			{TaskText: "Sync with HR on scheduling gaps", Category: models.CategoryCollaborating},
		},
	},
	{
		Role:        "customer success",
		Wins:        []string{"Onboarded the new enterprise account", "Resolved two critical tickets"},
		Drains:      []string{"Late-night escalation with support"},
		FutureFocus: []string{"Draft the quarterly health report"},
		Tasks: []models.Task{
			{TaskText: "Onboard new enterprise account", Category: models.CategoryCollaborating},
			{TaskText: "Resolve critical support tickets", Category: models.CategoryCreating},
			{TaskText: "Escalation call with support", Category: models.CategoryCollaborating},
			{TaskText: "Outline quarterly health report", Category: models.CategoryCreating},
		},
	},
	{
		Role:        "data analyst",
		Wins:        []string{"Built the revenue cohort dashboard", "Validated the churn model inputs"},
		Drains:      []string{"Rework due to inconsistent source data"},
		FutureFocus: []string{"Share insights with finance"},
		Tasks: []models.Task{
			{TaskText: "Build revenue cohort dashboard", Category: models.CategoryCreating},
			{TaskText: "Validate churn model inputs", Category: models.CategoryCreating},
			{TaskText: "Document data inconsistencies", Category: models.CategoryOrganizing},
			{TaskText: "Send insights summary to finance", Category: models.CategoryCommunicating},
		},
	},
	{
		Role:        "project manager",
		Wins:        []string{"Aligned the roadmap with stakeholders", "Closed sprint scope"},
		Drains:      []string{"Too many ad-hoc status checks"},
		FutureFocus: []string{"Prepare sprint kickoff agenda"},
		Tasks: []models.Task{
			{TaskText: "Roadmap alignment meeting", Category: models.CategoryCollaborating},
			{TaskText: "Close sprint scope", Category: models.CategoryOrganizing},
			{TaskText: "Respond to status check emails", Category: models.CategoryCommunicating},
			{TaskText: "Draft sprint kickoff agenda", Category: models.CategoryOrganizing},
		},
	},
	{
		Role:        "nurse lead",
		Wins:        []string{"Completed patient discharge summaries", "Updated medication charts before rounds"},
		Drains:      []string{"Extended wound care rounds"},
		FutureFocus: []string{"Prepare training notes for new staff"},
		Tasks: []models.Task{
			{TaskText: "Complete patient discharge summaries", Category: models.CategoryCreating},
			{TaskText: "Update medication charts", Category: models.CategoryOrganizing},
			{TaskText: "Wound care rounds", Category: models.CategoryCreating},
			{TaskText: "Brief new staff on protocol changes", Category: models.CategoryCommunicating},
		},
	},
	{
		Role:        "research lead",
		Wins:        []string{"Synthesized interview insights", "Drafted the methodology section"},
		Drains:      []string{"Long IRB compliance review"},
		FutureFocus: []string{"Plan the next participant wave"},
		Tasks: []models.Task{
			{TaskText: "Synthesize interview insights", Category: models.CategoryCreating},
			{TaskText: "Draft methodology section", Category: models.CategoryCreating},
			{TaskText: "IRB compliance review meeting", Category: models.CategoryCollaborating},
			{TaskText: "Plan next participant wave", Category: models.CategoryOrganizing},
		},
	},
	{
		Role:        "founder",
		Wins:        []string{"Closed a pilot customer", "Updated the investor deck"},
		Drains:      []string{"Travel logistics for the demo day"},
		FutureFocus: []string{"Finalize the pricing page"},
		Tasks: []models.Task{
			{TaskText: "Close pilot customer", Category: models.CategoryCollaborating},
			{TaskText: "Update investor deck", Category: models.CategoryCreating},
			{TaskText: "Book demo day travel", Category: models.CategoryOrganizing},
			{TaskText: "Iterate pricing page copy", Category: models.CategoryCreating},
		},
	},
	{
		Role:        "HR partner",
		Wins:        []string{"Finalized the onboarding checklist", "Completed two performance reviews"},
		Drains:      []string{"Backlog of compliance paperwork"},
		FutureFocus: []string{"Schedule manager training session"},
		Tasks: []models.Task{
			{TaskText: "Finalize onboarding checklist", Category: models.CategoryOrganizing},
			{TaskText: "Complete performance reviews", Category: models.CategoryCollaborating},
			{TaskText: "Process compliance paperwork", Category: models.CategoryOrganizing},
			{TaskText: "Schedule manager training session", Category: models.CategoryOrganizing},
		},
	},
	{
		Role:        "sales lead",
		Wins:        []string{"Ran two successful product demos", "Closed the renewal with Redwood"},
		Drains:      []string{"Chasing late-stage pricing approvals"},
		FutureFocus: []string{"Update the pipeline forecast"},
		Tasks: []models.Task{
			{TaskText: "Run product demos", Category: models.CategoryCollaborating},
			{TaskText: "Close Redwood renewal", Category: models.CategoryCollaborating},
			{TaskText: "Request pricing approvals", Category: models.CategoryCommunicating},
			{TaskText: "Update pipeline forecast", Category: models.CategoryOrganizing},
		},
	},
	{
		Role:        "operations analyst",
		Wins:        []string{"Mapped the supply chain bottlenecks", "Cleaned the vendor list"},
		Drains:      []string{"Spreadsheet cleanup took too long"},
		FutureFocus: []string{"Automate vendor scoring"},
		Tasks: []models.Task{
			{TaskText: "Map supply chain bottlenecks", Category: models.CategoryCreating},
			{TaskText: "Clean vendor list", Category: models.CategoryOrganizing},
			{TaskText: "Audit procurement spreadsheet", Category: models.CategoryOrganizing},
			{TaskText: "Draft vendor scoring framework", Category: models.CategoryCreating},
		},
	},
	{
		Role:        "content strategist",
		Wins:        []string{"Outlined the February editorial calendar", "Published the FAQ update"},
		Drains:      []string{"Multiple last-minute edits"},
		FutureFocus: []string{"Coordinate the webinar copy"},
		Tasks: []models.Task{
			{TaskText: "Outline February editorial calendar", Category: models.CategoryOrganizing},
			{TaskText: "Publish FAQ update", Category: models.CategoryCreating},
			{TaskText: "Handle last-minute edits", Category: models.CategoryCommunicating},
			{TaskText: "Coordinate webinar copy", Category: models.CategoryCollaborating},
		},
	},
	{
		Role:        "engineering manager",
		Wins:        []string{"Unblocked the infra rollout", "Coached two ICs through review feedback"},
		Drains:      []string{"Incident response during lunch"},
		FutureFocus: []string{"Plan the next architecture review"},
		Tasks: []models.Task{
			{TaskText: "Unblock infra rollout", Category: models.CategoryCollaborating},
			{TaskText: "Coach ICs on review feedback", Category: models.CategoryCollaborating},
			{TaskText: "Handle incident response", Category: models.CategoryCreating},
			{TaskText: "Plan architecture review", Category: models.CategoryOrganizing},
		},
	},
}

// Scenarios returns a deep copy of the built-in corpus.
func Scenarios() []models.Scenario {
	out := make([]models.Scenario, len(corpus))
	for i, s := range corpus {
		out[i] = s.Clone()
	}
	return out
}
