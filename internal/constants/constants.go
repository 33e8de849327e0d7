package constants

const USER_AGENT = "courtside/0.1.0 (+https://github.com/nbadata/courtside)"
