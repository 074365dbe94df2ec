package contracts

type ITokenManagement interface {
	UsedTokens(inputToken int, outputToken int, cost float64)
	DisplayTokens(chatModel string)
	GetCurrentTokenUsage() (total int, input int, output int)
	GetCurrentCost() float64
	ClearToken()
}
