package feedback

import (
	"fmt"
	"strings"

	"github.com/pthm/psgrade/internal/criteria"
	"github.com/pthm/psgrade/internal/features"
)

// narrative holds the four tiered templates of one criterion, best first:
// score >= 8, >= 6, >= 4 and below 4. Templates may use the placeholders
// {items}, {listing}, {progression}, {domain}, {examples} and {connectors}.
type narrative struct {
	tiers [4]string
	items func(features.FeatureSet) []string
}

var narrativeFloors = [3]float64{8, 6, 4}

var narratives = map[criteria.Name]narrative{
	criteria.AcademicCriteria: {
		tiers: [4]string{
			"Your academic engagement is sophisticated, drawing on {items} with real understanding.",
			"You show sound academic knowledge ({items}); push further into university-level sources.",
			"Academic content is present but thin. Build on {items} with wider reading and analysis.",
			"There is little academic substance yet. Name specific texts, ideas and sources from your subject.",
		},
		items: func(fs features.FeatureSet) []string { return concat(fs.AcademicTerms, fs.ResearchMentions) },
	},
	criteria.IntellectualQualities: {
		tiers: [4]string{
			"You come across as curious and independent, questioning ideas rather than repeating them.",
			"There is evident curiosity; show more of where you challenged or tested an idea.",
			"Your curiosity is stated more than shown. Describe a question you pursued and what you found.",
			"The statement does not yet show independent thought. Add a moment where you questioned or critiqued something.",
		},
	},
	criteria.IntellectualDevelopment: {
		tiers: [4]string{
			"Your ideas develop clearly, each experience building on the last ({items}).",
			"There is a sense of progression ({progression} linking phrases); make every step explicit.",
			"Development is patchy: {listing} listing phrases against {progression} progression phrases.",
			"The statement reads as a list ({listing} listing phrases, {progression} progression phrases). Show how each experience led to the next.",
		},
		items: func(fs features.FeatureSet) []string { return fs.ProgressionPhrases },
	},
	criteria.SubjectEngagement: {
		tiers: [4]string{
			"Engagement with {domain} is focused and convincing.",
			"Your interest in {domain} is clear; tie more of your evidence back to the course.",
			"Subject focus on {domain} is uneven. Cut material that does not serve the course.",
			"It is hard to tell which subject you are applying for. Anchor the statement in your course.",
		},
	},
	criteria.CommunicationStructure: {
		tiers: [4]string{
			"Well organised and fluent, with effective connectives ({items}).",
			"Clear overall; a few more signposts ({connectors} so far) would sharpen the argument.",
			"Structure needs work. Group ideas into paragraphs and link them with connectives.",
			"Hard to follow. Plan a paragraph per idea and connect them explicitly.",
		},
		items: func(fs features.FeatureSet) []string { return fs.Connectors },
	},
	criteria.PersonalDevelopment: {
		tiers: [4]string{
			"You reflect maturely on how you have grown.",
			"Some reflection on personal growth; link the skills you mention to your subject.",
			"Personal development is asserted rather than shown. Reflect on what changed.",
			"There is little reflection on your own development.",
		},
	},
	criteria.FactualAccuracy: {
		tiers: [4]string{
			"Claims are careful and well sourced ({items}).",
			"Mostly careful claims; cite sources where you make factual statements.",
			"Some claims are overstated. Qualify absolutes and name your sources.",
			"Several sweeping claims undermine credibility. Replace absolutes with evidence.",
		},
		items: func(fs features.FeatureSet) []string { return concat(fs.BookTitles, fs.ResearchMentions) },
	},
	criteria.UniversitySpecific: {
		tiers: [4]string{
			"The statement suits your target university and course well.",
			"Reasonable fit with your target; reflect its teaching style more directly.",
			"Fit with your target is limited. Emphasise what your course values.",
			"Little in the statement speaks to your target university or course.",
		},
	},
}

// render picks the tier for score and fills its placeholders. Up to three
// feature items are interpolated.
func (n narrative) render(score float64, fs features.FeatureSet) string {
	tier := len(narrativeFloors)
	for i, floor := range narrativeFloors {
		if score >= floor {
			tier = i
			break
		}
	}

	var items []string
	if n.items != nil {
		items = first(n.items(fs), 3)
	}
	list := strings.Join(items, ", ")
	if list == "" {
		list = "the material you mention"
	}

	return strings.NewReplacer(
		"{items}", list,
		"{listing}", fmt.Sprint(fs.ListingCount),
		"{progression}", fmt.Sprint(fs.ProgressionCount),
		"{domain}", fs.SubjectDomain,
		"{examples}", fmt.Sprint(fs.ExampleCount),
		"{connectors}", fmt.Sprint(fs.ConnectorCount),
	).Replace(n.tiers[tier])
}

func concat(lists ...[]string) []string {
	var out []string
	for _, l := range lists {
		out = append(out, l...)
	}
	return out
}

func first(list []string, n int) []string {
	if len(list) > n {
		return list[:n]
	}
	return list
}
