package model

type LinePushEventMessage struct {
	To   string `json:"to"`
	Text string `json:"text"`
}

type LineGroupPushEventMessage struct {
	Text string `json:"text"`
}
