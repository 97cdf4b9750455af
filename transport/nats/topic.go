package nats

import (
	"github.com/nats-io/nats.go/micro"

	"github.com/corvidae/docchat"
)

func AddEndpoints(group micro.Group, endpoints docchat.EndpointSet) {
	group.AddEndpoint("ask", AskHandler(endpoints.Ask))
	group.AddEndpoint("retrieve", RetrieveHandler(endpoints.Retrieve))
	group.AddEndpoint("reset", ResetHandler(endpoints.Reset))
}
