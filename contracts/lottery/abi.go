package lottery

// LotteryABI is the abi of the deployed lottery contract, limited to the functions the frontend uses
const LotteryABI = `[
	{"inputs":[],"name":"manager","outputs":[{"internalType":"address","name":"","type":"address"}],"stateMutability":"view","type":"function"},
	{"inputs":[],"name":"getParticipants","outputs":[{"internalType":"address payable[]","name":"","type":"address[]"}],"stateMutability":"view","type":"function"},
	{"inputs":[],"name":"lastWinner","outputs":[{"internalType":"address","name":"","type":"address"}],"stateMutability":"view","type":"function"},
	{"inputs":[],"name":"enter","outputs":[],"stateMutability":"payable","type":"function"},
	{"inputs":[],"name":"selectWinner","outputs":[],"stateMutability":"nonpayable","type":"function"}
]`
