package search

import (
	"github.com/toriana04/fraudintel/core"
)

func record(i int, title, summary string, keywords ...string) core.ArticleRecord {
	return core.ArticleRecord{
		Index:    i,
		ID:       core.RecordID(title, "", summary),
		Title:    title,
		Summary:  summary,
		Keywords: keywords,
	}
}

func scenarioCorpus() []core.ArticleRecord {
	return []core.ArticleRecord{
		record(0, "Check Fraud Rises", "Check washing and altered checks are increasing.", "check fraud", "mail theft"),
		record(1, "AI Scams", "Deepfake voice scams target investors.", "ai", "deepfake", "investment scam"),
	}
}

func relatedCorpus() []core.ArticleRecord {
	return []core.ArticleRecord{
		record(0, "Deepfake CEO Calls", "Deepfake voice clones of executives trick employees.", "ai", "deepfake", "investment scam"),
		record(1, "Voice Cloning Surge", "Voice clones and deepfake audio fuel new scams.", "ai", "deepfake"),
		record(2, "Chatbot Phishing", "Chatbots write convincing phishing messages.", "ai"),
		record(3, "Crypto Deepfakes", "Deepfake celebrities promote crypto investment scams.", "deepfake", "investment scam", "crypto"),
		record(4, "Washed Checks", "Criminals wash stolen checks from mailboxes.", "check fraud", "mail theft"),
		record(5, "Deepfake Romance", "Deepfake video chats lure victims into investment scams.", "ai", "deepfake", "investment scam", "romance"),
		record(6, "Synthetic Voices", "Synthetic voice scams target bank call centers.", "ai", "deepfake", "bank"),
	}
}
