// Package ideas holds the idea catalog and its round-robin rotation.
package ideas

import "github.com/reelay/reelay/pkg/models"

// DefaultCatalog returns the built-in idea bank.
func DefaultCatalog() []models.Idea {
	return []models.Idea{
		{
			Slug:              "baby-goat-happy-hops",
			Language:          "en",
			CoreHook:          "A newborn baby goat does tiny excited hops around a camera placed on the grass.",
			SettingHints:      "Small farm field at golden hour.",
			CoreCharacters:    "One tiny newborn goat kid.",
			CoreAction:        "Goat hops in energetic, clumsy bursts around the camera, occasionally sliding or stumbling cutely.",
			SafetyConstraints: "Gentle terrain with no obstacles.",
			StyleTags:         []string{"goat", "baby-animal", "nature", "playful", "viral"},
		},
		{
			Slug:              "baby-husky-mimic-sounds",
			Language:          "en",
			CoreHook:          "A baby babbles, and a husky puppy tries to mimic the baby's sounds.",
			SettingHints:      "Indoor nursery with warm window light.",
			CoreCharacters:    "One baby sitting, one husky puppy facing them.",
			CoreAction:        "Baby babbles. Husky pup responds with tiny attempts at howling, tilting its head in confusion.",
			SafetyConstraints: "Puppy must be gentle and stable.",
			StyleTags:         []string{"baby", "husky", "talking", "cute", "sound-mimic"},
		},
		{
			Slug:              "baby-elephant-curious-trunk",
			Language:          "en",
			CoreHook:          "A baby elephant gently explores a camera lens with its tiny trunk.",
			SettingHints:      "Sanctuary environment with soft dust and sunlight.",
			CoreCharacters:    "One young baby elephant.",
			CoreAction:        "Elephant taps and explores the camera with its trunk, then sneezes a tiny dust puff.",
			SafetyConstraints: "Elephant must act gentle. No dangerous trunk swings.",
			StyleTags:         []string{"elephant", "baby-animal", "nature", "viral", "cute"},
		},
		{
			Slug:              "baby-kitten-soft-paws",
			Language:          "en",
			CoreHook:          "A tiny kitten kneads on the baby's blanket, mesmerising the baby.",
			SettingHints:      "Indoor blanket scene with close smartphone angle.",
			CoreCharacters:    "One baby lying on back, one kitten near feet.",
			CoreAction:        "Kitten kneads the blanket gently. Baby reaches out curiously.",
			SafetyConstraints: "Kitten must be gentle. No claws extended.",
			StyleTags:         []string{"baby", "kitten", "kneading", "adorable", "viral"},
		},
		{
			Slug:              "baby-sloth-slow-hug",
			Language:          "en",
			CoreHook:          "A baby sloth slowly crawls toward the camera and hugs it.",
			SettingHints:      "Rescue center, natural wood branches, soft lighting.",
			CoreCharacters:    "One baby sloth.",
			CoreAction:        "Sloth crawls slowly, then wraps its arms around the camera with an innocent expression.",
			SafetyConstraints: "Sloth kept low and safe.",
			StyleTags:         []string{"sloth", "baby-animal", "hug", "adorable"},
		},
		{
			Slug:              "fawn-curious-head-tilt",
			Language:          "en",
			CoreHook:          "A newborn fawn hears a soft sound and tilts its head repeatedly.",
			SettingHints:      "Forest edge or sanctuary meadow.",
			CoreCharacters:    "One newborn fawn.",
			CoreAction:        "Fawn tilts head slowly left and right, then steps forward shyly.",
			SafetyConstraints: "Soft terrain, calm environment.",
			StyleTags:         []string{"fawn", "baby-animal", "cute", "nature"},
		},
		{
			Slug:              "baby-penguin-tiny-waddle",
			Language:          "en",
			CoreHook:          "A baby penguin waddles toward the camera and slips gently on its belly.",
			SettingHints:      "Indoor cool habitat with soft ice or snow texture.",
			CoreCharacters:    "One fluffy penguin chick.",
			CoreAction:        "Penguin waddles, slips, slides forward, then looks proud.",
			SafetyConstraints: "No sharp ice. Safe ground.",
			StyleTags:         []string{"penguin", "cute", "baby-animal", "slip", "viral"},
		},
		{
			Slug:              "hedgehog-tiny-sniff",
			Language:          "en",
			CoreHook:          "A baby hedgehog sniffs the camera lens repeatedly, twitching its tiny nose.",
			SettingHints:      "Soft wooden table or blanket.",
			CoreCharacters:    "One very small hedgehog.",
			CoreAction:        "Hedgehog sniffs and wiggles toward the lens, then curls into a tiny ball.",
			SafetyConstraints: "Safe padded surface.",
			StyleTags:         []string{"hedgehog", "cute", "micro", "sniff", "viral"},
		},
		{
			Slug:              "baby-lab-puppy-tug",
			Language:          "en",
			CoreHook:          "A baby and a Labrador puppy gently tug on opposite sides of a soft cloth.",
			SettingHints:      "Living room play mat with natural window light.",
			CoreCharacters:    "One baby, one lab puppy.",
			CoreAction:        "Baby pulls cloth. Puppy pulls the other side in tiny, playful motions.",
			SafetyConstraints: "No rough tugging. Baby must remain stable.",
			StyleTags:         []string{"baby", "puppy", "lab", "playful"},
		},
		{
			Slug:              "baby-chimp-curious-hands",
			Language:          "en",
			CoreHook:          "A baby chimp explores the camera gently with its hands.",
			SettingHints:      "Sanctuary habitat with soft leaves.",
			CoreCharacters:    "One baby chimp.",
			CoreAction:        "Chimp touches lens with curiosity, then mimics the camera operator.",
			SafetyConstraints: "Chimp must remain gentle, slow, safe.",
			StyleTags:         []string{"chimp", "baby-animal", "cute"},
		},
	}
}
