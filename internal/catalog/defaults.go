package catalog

// useCases is the reference catalog. It is never mutated; Default hands out
// copies.
var useCases = []UseCase{
	{
		ID:                      "voice-queries",
		Name:                    "Voice Database Queries",
		Description:             "Hands-free NCIC, DMV, and warrant checks via voice command",
		AnnualSavingsPerOfficer: 4200,
		TimeSavingsHoursPerYear: 156,
		Category:                Efficiency,
	},
	{
		ID:                      "real-time-transcription",
		Name:                    "Real-Time Transcription",
		Description:             "Automatic transcription of radio communications and interviews",
		AnnualSavingsPerOfficer: 3600,
		TimeSavingsHoursPerYear: 120,
		Category:                Efficiency,
	},
	{
		ID:                      "policy-lookup",
		Name:                    "AI Policy Lookup",
		Description:             "Instant answers to policy questions using RAG",
		AnnualSavingsPerOfficer: 2400,
		TimeSavingsHoursPerYear: 80,
		Category:                Compliance,
	},
	{
		ID:                      "translation",
		Name:                    "Real-Time Translation",
		Description:             "95+ language support for field communications",
		AnnualSavingsPerOfficer: 1800,
		TimeSavingsHoursPerYear: 60,
		Category:                Safety,
	},
	{
		ID:                      "report-generation",
		Name:                    "Automated Report Generation",
		Description:             "AI-assisted incident report writing and summarization",
		AnnualSavingsPerOfficer: 5400,
		TimeSavingsHoursPerYear: 180,
		Category:                Efficiency,
	},
	{
		ID:                      "radio-control",
		Name:                    "Voice Radio Control",
		Description:             "Hands-free channel switching and radio configuration",
		AnnualSavingsPerOfficer: 1200,
		TimeSavingsHoursPerYear: 40,
		Category:                Safety,
	},
	{
		ID:                      "bolo-alerts",
		Name:                    "Intelligent BOLO Alerts",
		Description:             "AI-powered alert matching and prioritization",
		AnnualSavingsPerOfficer: 2100,
		TimeSavingsHoursPerYear: 70,
		Category:                Safety,
	},
	{
		ID:                      "training-assist",
		Name:                    "Training Assistant",
		Description:             "On-demand training content and procedure guidance",
		AnnualSavingsPerOfficer: 1500,
		TimeSavingsHoursPerYear: 50,
		Category:                Compliance,
	},
	{
		ID:                      "evidence-tagging",
		Name:                    "Smart Evidence Tagging",
		Description:             "Automated evidence categorization and chain-of-custody",
		AnnualSavingsPerOfficer: 3000,
		TimeSavingsHoursPerYear: 100,
		Category:                Compliance,
	},
}
