package ticket

type Summary struct {
	Total      int
	Open       int
	InProgress int
	Closed     int
}

func Summarize(tickets []Ticket) Summary {
	summary := Summary{Total: len(tickets)}
	for _, t := range tickets {
		switch t.Status {
		case Open:
			summary.Open++
		case InProgress:
			summary.InProgress++
		case Closed:
			summary.Closed++
		}
	}
	return summary
}
