package testsupport

// Sample extract: two San Francisco home games in 2009, the team file and one
// roster. Identifiers are stable so tests can assert on them.
const (
	SampleGameOne = "SFN200904070"
	SampleGameTwo = "SFN200904080"
)

const sampleEvents = `id,SFN200904070
version,2
info,visteam,MIL
info,hometeam,SFN
info,site,SFO03
start,cartm001,"Mike Cameron",0,1,8
start,lincl001,"Tim Lincecum",1,9,1
play,1,0,cartm001,12,CBFX,S8/L.1-2
com,"first line"
com,"second line"
sub,sandp001,"Pablo Sandoval",1,3,5
badj,bondb001,R
play,1,1,sandp001,??,,K
data,er,lincl001,1
id,SFN200904080
info,visteam,MIL
info,hometeam,SFN
start,cartm001,"Mike Cameron",0,1,8
play,1,0,cartm001,00,X,HR/F7
`

const sampleTeams = `MIL,N,Milwaukee,Brewers
SFN,N,San Francisco,Giants
`

const sampleRoster = `lincl001,Lincecum,Tim,R,R,SFN,P
sandp001,Sandoval,Pablo,B,R,SFN,3B
`

// SampleExtract returns file name to content for the sample extract.
func SampleExtract() map[string]string {
	return map[string]string{
		"2009SFN.EVN": sampleEvents,
		"TEAM2009":    sampleTeams,
		"SFN2009.ROS": sampleRoster,
	}
}
