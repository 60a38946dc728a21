package calendar

// firstTabulatedYear is the BS year of monthLengths[0].
const firstTabulatedYear = 1978

// monthLengths lists the days of each month for consecutive BS years,
// starting at firstTabulatedYear (1 Baisakh .. Chaitra).
var monthLengths = [][MonthsPerYear]int{
	{31, 31, 32, 31, 31, 31, 30, 29, 30, 29, 30, 30}, // 1978
	{31, 31, 32, 32, 31, 30, 30, 29, 30, 29, 30, 30}, // 1979
	{31, 32, 31, 32, 31, 30, 30, 30, 29, 29, 30, 31}, // 1980
	{31, 31, 31, 32, 31, 31, 29, 30, 30, 29, 30, 30}, // 1981
	{31, 31, 32, 31, 31, 31, 30, 29, 30, 29, 30, 30}, // 1982
	{31, 31, 32, 32, 31, 30, 30, 29, 30, 29, 30, 30}, // 1983
	{31, 32, 31, 32, 31, 30, 30, 30, 29, 29, 30, 31}, // 1984
	{31, 31, 31, 32, 31, 31, 29, 30, 30, 29, 30, 30}, // 1985
	{31, 31, 32, 31, 31, 31, 30, 29, 30, 29, 30, 30}, // 1986
	{31, 32, 31, 32, 31, 30, 30, 29, 30, 29, 30, 30}, // 1987
	{31, 32, 31, 32, 31, 30, 30, 30, 29, 29, 30, 31}, // 1988
	{31, 31, 31, 32, 31, 31, 30, 29, 30, 29, 30, 30}, // 1989
	{31, 31, 32, 31, 31, 31, 30, 29, 30, 29, 30, 30}, // 1990
	{31, 32, 31, 32, 31, 30, 30, 29, 30, 29, 30, 30}, // 1991
	{31, 32, 31, 32, 31, 30, 30, 30, 29, 30, 29, 31}, // 1992
	{31, 31, 31, 32, 31, 31, 30, 29, 30, 29, 30, 30}, // 1993
	{31, 31, 32, 31, 31, 31, 30, 29, 30, 29, 30, 30}, // 1994
	{31, 32, 31, 32, 31, 30, 30, 30, 29, 29, 30, 30}, // 1995
	{31, 32, 31, 32, 31, 30, 30, 30, 29, 30, 29, 31}, // 1996
	{31, 31, 32, 31, 31, 31, 30, 29, 30, 29, 30, 30}, // 1997
	{31, 31, 32, 31, 31, 31, 30, 29, 30, 29, 30, 30}, // 1998
	{31, 32, 31, 32, 31, 30, 30, 30, 29, 29, 30, 31}, // 1999
	{30, 32, 31, 32, 31, 30, 30, 30, 29, 30, 29, 31}, // 2000
	{31, 31, 32, 31, 31, 31, 30, 29, 30, 29, 30, 30}, // 2001
	{31, 31, 32, 32, 31, 30, 30, 29, 30, 29, 30, 30}, // 2002
	{31, 32, 31, 32, 31, 30, 30, 30, 29, 29, 30, 31}, // 2003
	{30, 32, 31, 32, 31, 30, 30, 30, 29, 30, 29, 31}, // 2004
	{31, 31, 32, 31, 31, 31, 30, 29, 30, 29, 30, 30}, // 2005
	{31, 31, 32, 32, 31, 30, 30, 29, 30, 29, 30, 30}, // 2006
	{31, 32, 31, 32, 31, 30, 30, 30, 29, 29, 30, 31}, // 2007
	{31, 31, 31, 32, 31, 31, 29, 30, 30, 29, 29, 31}, // 2008
	{31, 31, 32, 31, 31, 31, 30, 29, 30, 29, 30, 30}, // 2009
	{31, 31, 32, 32, 31, 30, 30, 29, 30, 29, 30, 30}, // 2010
	{31, 32, 31, 32, 31, 30, 30, 30, 29, 29, 30, 31}, // 2011
	{31, 31, 31, 32, 31, 31, 29, 30, 30, 29, 30, 30}, // 2012
	{31, 31, 32, 31, 31, 31, 30, 29, 30, 29, 30, 30}, // 2013
	{31, 31, 32, 32, 31, 30, 30, 29, 30, 29, 30, 30}, // 2014
	{31, 32, 31, 32, 31, 30, 30, 30, 29, 29, 30, 31}, // 2015
	{31, 31, 31, 32, 31, 31, 29, 30, 30, 29, 30, 30}, // 2016
	{31, 31, 32, 31, 31, 31, 30, 29, 30, 29, 30, 30}, // 2017
	{31, 32, 31, 32, 31, 30, 30, 29, 30, 29, 30, 30}, // 2018
	{31, 32, 31, 32, 31, 30, 30, 30, 29, 30, 29, 31}, // 2019
	{31, 31, 31, 32, 31, 31, 30, 29, 30, 29, 30, 30}, // 2020
	{31, 31, 32, 31, 31, 31, 30, 29, 30, 29, 30, 30}, // 2021
	{31, 32, 31, 32, 31, 30, 30, 30, 29, 29, 30, 30}, // 2022
	{31, 32, 31, 32, 31, 30, 30, 30, 29, 30, 29, 31}, // 2023
	{31, 31, 31, 32, 31, 31, 30, 29, 30, 29, 30, 30}, // 2024
	{31, 31, 32, 31, 31, 31, 30, 29, 30, 29, 30, 30}, // 2025
	{31, 32, 31, 32, 31, 30, 30, 30, 29, 29, 30, 31}, // 2026
	{30, 32, 31, 32, 31, 30, 30, 30, 29, 30, 29, 31}, // 2027
	{31, 31, 32, 31, 31, 31, 30, 29, 30, 29, 30, 30}, // 2028
	{31, 31, 32, 31, 32, 30, 30, 29, 30, 29, 30, 30}, // 2029
	{31, 32, 31, 32, 31, 30, 30, 30, 29, 29, 30, 31}, // 2030
	{30, 32, 31, 32, 31, 30, 30, 30, 29, 30, 29, 31}, // 2031
	{31, 31, 32, 31, 31, 31, 30, 29, 30, 29, 30, 30}, // 2032
	{31, 31, 32, 32, 31, 30, 30, 29, 30, 29, 30, 30}, // 2033
	{31, 32, 31, 32, 31, 30, 30, 30, 29, 29, 30, 31}, // 2034
	{30, 32, 31, 32, 31, 31, 29, 30, 30, 29, 29, 31}, // 2035
	{31, 31, 32, 31, 31, 31, 30, 29, 30, 29, 30, 30}, // 2036
	{31, 31, 32, 32, 31, 30, 30, 29, 30, 29, 30, 30}, // 2037
	{31, 32, 31, 32, 31, 30, 30, 30, 29, 29, 30, 31}, // 2038
	{31, 31, 31, 32, 31, 31, 29, 30, 30, 29, 30, 30}, // 2039
	{31, 31, 32, 31, 31, 31, 30, 29, 30, 29, 30, 30}, // 2040
	{31, 31, 32, 32, 31, 30, 30, 29, 30, 29, 30, 30}, // 2041
	{31, 32, 31, 32, 31, 30, 30, 30, 29, 29, 30, 31}, // 2042
	{31, 31, 31, 32, 31, 31, 29, 30, 30, 29, 30, 30}, // 2043
	{31, 31, 32, 31, 31, 31, 30, 29, 30, 29, 30, 30}, // 2044
	{31, 32, 31, 32, 31, 30, 30, 29, 30, 29, 30, 30}, // 2045
	{31, 32, 31, 32, 31, 30, 30, 30, 29, 29, 30, 31}, // 2046
	{31, 31, 31, 32, 31, 31, 30, 29, 30, 29, 30, 30}, // 2047
	{31, 31, 32, 31, 31, 31, 30, 29, 30, 29, 30, 30}, // 2048
	{31, 32, 31, 32, 31, 30, 30, 30, 29, 29, 30, 30}, // 2049
	{31, 32, 31, 32, 31, 30, 30, 30, 29, 30, 29, 31}, // 2050
	{31, 31, 31, 32, 31, 31, 30, 29, 30, 29, 30, 30}, // 2051
	{31, 31, 32, 31, 31, 31, 30, 29, 30, 29, 30, 30}, // 2052
	{31, 32, 31, 32, 31, 30, 30, 30, 29, 29, 30, 30}, // 2053
	{31, 32, 31, 32, 31, 30, 30, 30, 29, 30, 29, 31}, // 2054
	{31, 31, 32, 31, 31, 31, 30, 29, 30, 29, 30, 30}, // 2055
	{31, 31, 32, 31, 32, 30, 30, 29, 30, 29, 30, 30}, // 2056
	{31, 32, 31, 32, 31, 30, 30, 30, 29, 29, 30, 31}, // 2057
	{30, 32, 31, 32, 31, 30, 30, 30, 29, 30, 29, 31}, // 2058
	{31, 31, 32, 31, 31, 31, 30, 29, 30, 29, 30, 30}, // 2059
	{31, 31, 32, 32, 31, 30, 30, 29, 30, 29, 30, 30}, // 2060
	{31, 32, 31, 32, 31, 30, 30, 30, 29, 29, 30, 31}, // 2061
	{30, 32, 31, 32, 31, 31, 29, 30, 29, 30, 29, 31}, // 2062
	{31, 31, 32, 31, 31, 31, 30, 29, 30, 29, 30, 30}, // 2063
	{31, 31, 32, 32, 31, 30, 30, 29, 30, 29, 30, 30}, // 2064
	{31, 32, 31, 32, 31, 30, 30, 30, 29, 29, 30, 31}, // 2065
	{31, 31, 31, 32, 31, 31, 29, 30, 30, 29, 29, 31}, // 2066
	{31, 31, 32, 31, 31, 31, 30, 29, 30, 29, 30, 30}, // 2067
	{31, 31, 32, 32, 31, 30, 30, 29, 30, 29, 30, 30}, // 2068
	{31, 32, 31, 32, 31, 30, 30, 30, 29, 29, 30, 31}, // 2069
	{31, 31, 31, 32, 31, 31, 29, 30, 30, 29, 30, 30}, // 2070
	{31, 31, 32, 31, 31, 31, 30, 29, 30, 29, 30, 30}, // 2071
	{31, 32, 31, 32, 31, 30, 30, 29, 30, 29, 30, 30}, // 2072
	{31, 32, 31, 32, 31, 30, 30, 30, 29, 29, 30, 31}, // 2073
	{31, 31, 31, 32, 31, 31, 30, 29, 30, 29, 30, 30}, // 2074
	{31, 31, 32, 31, 31, 31, 30, 29, 30, 29, 30, 30}, // 2075
	{31, 32, 31, 32, 31, 30, 30, 30, 29, 29, 30, 30}, // 2076
	{31, 32, 31, 32, 31, 30, 30, 30, 29, 30, 29, 31}, // 2077
	{31, 31, 31, 32, 31, 31, 30, 29, 30, 29, 30, 30}, // 2078
	{31, 31, 32, 31, 31, 31, 30, 29, 30, 29, 30, 30}, // 2079
	{31, 32, 31, 32, 31, 30, 30, 30, 29, 29, 30, 30}, // 2080
	{31, 32, 31, 32, 31, 30, 30, 30, 29, 30, 29, 31}, // 2081
	{31, 31, 32, 31, 31, 31, 30, 29, 30, 29, 30, 30}, // 2082
	{31, 31, 32, 31, 31, 30, 30, 30, 29, 30, 30, 30}, // 2083
	{31, 31, 32, 31, 31, 30, 30, 30, 29, 30, 30, 30}, // 2084
	{31, 32, 31, 32, 30, 31, 30, 30, 29, 30, 30, 30}, // 2085
	{30, 32, 31, 32, 31, 30, 30, 30, 29, 30, 30, 30}, // 2086
	{31, 31, 32, 31, 31, 31, 30, 30, 29, 30, 30, 30}, // 2087
	{30, 31, 32, 32, 30, 31, 30, 30, 29, 30, 30, 30}, // 2088
	{30, 32, 31, 32, 31, 30, 30, 30, 29, 30, 30, 30}, // 2089
	{30, 32, 31, 32, 31, 30, 30, 30, 29, 30, 30, 30}, // 2090
	{31, 31, 32, 31, 31, 31, 30, 30, 29, 30, 30, 30}, // 2091
	{30, 31, 32, 32, 31, 30, 30, 30, 29, 30, 30, 30}, // 2092
	{30, 32, 31, 32, 31, 30, 30, 30, 29, 30, 30, 30}, // 2093
	{31, 31, 32, 31, 31, 30, 30, 30, 29, 30, 30, 30}, // 2094
	{31, 31, 32, 31, 31, 31, 30, 29, 30, 30, 30, 30}, // 2095
	{30, 31, 32, 32, 31, 30, 30, 29, 30, 29, 30, 30}, // 2096
	{31, 32, 31, 32, 31, 30, 30, 30, 29, 30, 30, 30}, // 2097
	{31, 31, 32, 31, 31, 31, 29, 30, 29, 30, 29, 31}, // 2098
	{31, 32, 31, 32, 31, 30, 30, 30, 29, 29, 30, 31}, // 2099
}
