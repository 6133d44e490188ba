package roster

// defaultTeams is the built-in FBS roster, grouped by conference.
var defaultTeams = []string{
	// SEC
	"Alabama",
	"Arkansas",
	"Auburn",
	"Florida",
	"Georgia",
	"Kentucky",
	"LSU",
	"Mississippi State",
	"Missouri",
	"Ole Miss",
	"South Carolina",
	"Tennessee",
	"Texas A&M",
	"Vanderbilt",
	"Texas",
	"Oklahoma",

	// Big 12
	"Arizona",
	"Arizona State",
	"Baylor",
	"BYU",
	"Cincinnati",
	"Colorado",
	"Houston",
	"Iowa State",
	"Kansas",
	"Kansas State",
	"Oklahoma State",
	"TCU",
	"Texas Tech",
	"UCF",
	"Utah",
	"West Virginia",

	// Big Ten
	"Illinois",
	"Indiana",
	"Iowa",
	"Maryland",
	"Michigan",
	"Michigan State",
	"Minnesota",
	"Nebraska",
	"Northwestern",
	"Ohio State",
	"Penn State",
	"Purdue",
	"Rutgers",
	"Wisconsin",
	"Oregon",
	"UCLA",
	"USC",
	"Washington",
	"Oregon State",
	"Washington State",

	// ACC
	"Boston College",
	"Clemson",
	"Duke",
	"Florida State",
	"Georgia Tech",
	"Louisville",
	"Miami",
	"North Carolina",
	"NC State",
	"Pittsburgh",
	"Syracuse",
	"Virginia",
	"Virginia Tech",
	"Wake Forest",
	"California",
	"Stanford",
	"SMU",

	// Independents and others
	"Notre Dame",
	"UConn",
	"UMass",
	"Army",
	"Navy",
	"Air Force",
}
