// Package questiongen produces the built-in Karimen and HonMen question
// banks used for seeding a fresh database and for tests.
package questiongen

import (
	"fmt"

	"github.com/menkyoquiz/menkyo-backend/internal/model"
)

// QuestionsPerCategory is the size of each generated bank.
const QuestionsPerCategory = 150

type baseQuestion struct {
	text        string
	answer      bool
	explanation string
	image       string
}

var karimenBase = []baseQuestion{
	{"This sign means 'stop'.", true, "The inverted red triangle sign means 'stop'. You must come to a complete stop before the stop line.", "/uploads/signs/stop.svg"},
	{"This sign means 'no entry for vehicles'.", true, "The red circle with a horizontal white bar prohibits entry for all vehicles.", "/uploads/signs/no-entry.svg"},
	{"This sign means 'parking allowed'.", false, "The red diagonal bar over a blue circle means 'no parking', not parking allowed.", "/uploads/signs/no-parking.svg"},
	{"Cars drive on the left side of the road in Japan.", true, "In Japan, vehicles are legally required to drive on the left side of the road.", ""},
	{"At intersections without traffic signals, vehicles coming from the right have priority.", true, "At intersections of equal width without signals, vehicles coming from the right have priority.", ""},
	{"Pedestrians have priority at crosswalks.", true, "Pedestrians always have priority at crosswalks, and vehicles must stop and give way to pedestrians.", ""},
	{"You must come to a complete stop at red lights.", true, "At red lights, you must come to a complete stop before the stop line and wait until the light turns green.", ""},
	{"Using mobile phones while driving is prohibited.", true, "Using mobile phones while driving is prohibited by traffic law and carries penalties.", ""},
	{"In rainy weather, you need to maintain a longer following distance than usual.", true, "In rainy weather, roads become slippery and braking distance increases, so you need to maintain a longer following distance.", ""},
	{"Yellow lights mean you should speed up to pass through.", false, "Yellow lights mean caution and prepare to stop. You should only proceed if you cannot stop safely.", ""},
	{"Drunk driving is acceptable if it's just a small amount.", false, "Drunk driving is prohibited by law regardless of the amount and can cause serious accidents.", ""},
	{"Seat belts are only required on highways.", false, "Seat belts are mandatory for all seats on both regular roads and highways.", ""},
	{"Speed limits are just guidelines and can be slightly exceeded.", false, "Speed limits are legally mandated maximum speeds, and exceeding them is a traffic violation.", ""},
}

var honMenBase = []baseQuestion{
	{"This sign means 'one way'.", true, "The blue rectangle with a white arrow means 'one way'. Vehicles may only travel in the direction of the arrow.", "/uploads/signs/one-way.svg"},
	{"This sign means 'closed to all traffic'.", true, "The red circle over a white field with crossed red bars closes the road to all pedestrians and vehicles.", "/uploads/signs/road-closed.svg"},
	{"This sign means 'maximum speed 40 km/h is recommended'.", false, "The number inside a red-bordered circle is a legal maximum speed limit, not a recommendation.", "/uploads/signs/speed-40.svg"},
	{"The minimum speed on highways is 50 km/h.", true, "The minimum speed on highways is set at 50 km/h, and driving below this speed is a violation.", ""},
	{"When overtaking, you should pass on the right side.", true, "Overtaking should be done on the right side, and you should return to the left lane promptly after overtaking.", ""},
	{"Traffic laws do not apply in parking lots.", false, "Traffic laws may apply in parking lots as well, and safe driving responsibilities are always required.", ""},
	{"Checking mirrors is only necessary when starting the vehicle.", false, "Mirror checks are necessary not only when starting but also when changing lanes, stopping, and at all times while driving.", ""},
	{"Motorcycles under 50cc can drive on highways.", false, "Motorcycles under 50cc (moped) are prohibited from entering highways.", ""},
	{"Headlights must be turned on at night.", true, "Headlights must be turned on at night and during twilight hours to ensure visibility and inform other traffic participants of your vehicle's presence.", ""},
	{"At stop signs, you can proceed slowly without coming to a complete stop.", false, "At stop signs, you must come to a complete stop and then check for safety before proceeding.", ""},
	{"Cars with expired vehicle inspection cannot be driven on public roads.", true, "Cars with expired vehicle inspection cannot be driven on public roads, and violations carry heavy penalties.", ""},
	{"Compulsory automobile liability insurance is optional.", false, "Compulsory automobile liability insurance is legally mandated, and driving without it is illegal.", ""},
	{"At railway crossings, you must stop and check for safety.", true, "At railway crossings, you must come to a complete stop and check left and right for safety before crossing.", ""},
}

func expand(base []baseQuestion, category, labelFormat string, idOffset int) []model.Question {
	questions := make([]model.Question, 0, QuestionsPerCategory)
	for i := 0; i < QuestionsPerCategory; i++ {
		b := base[i%len(base)]
		q := model.Question{
			ID:          idOffset + i + 1,
			Text:        fmt.Sprintf(labelFormat, b.text, i+1),
			Answer:      b.answer,
			Explanation: b.explanation,
			Category:    category,
			IsPremium:   i >= model.FreeQuestionLimit,
		}
		if b.image != "" {
			img := b.image
			q.ImageURL = &img
		}
		questions = append(questions, q)
	}
	return questions
}

// Karimen returns the learner's permit question bank.
func Karimen() []model.Question {
	return expand(karimenBase, model.CategoryKarimen, "%s (Question %d)", 0)
}

// HonMen returns the full license question bank. Generated IDs live in a
// separate range so the combined in-memory bank has no collisions; when
// seeding a database the serial column assigns its own IDs.
func HonMen() []model.Question {
	return expand(honMenBase, model.CategoryHonMen, "%s (Full License Question %d)", 1000)
}

// All returns both banks, Karimen first. Ordering is stable across calls.
func All() []model.Question {
	all := Karimen()
	return append(all, HonMen()...)
}
