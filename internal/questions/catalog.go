package questions

import (
	"trivia-service/internal/constants"
	"trivia-service/internal/models"
)

func q(text, difficulty string, correct int, options ...string) models.Question {
	return models.Question{
		Text:         text,
		Options:      options,
		CorrectIndex: correct,
		Difficulty:   difficulty,
		Type:         constants.QuestionTypeMultiple,
	}
}

const (
	easy   = constants.DifficultyEasy
	medium = constants.DifficultyMedium
	hard   = constants.DifficultyHard
)

var defaultCatalog = map[string][]models.Question{
	"Science": {
		q("What is the chemical symbol for Gold?", easy, 2, "Go", "Gd", "Au", "Ag"),
		q("Which planet is known as the Red Planet?", easy, 1, "Venus", "Mars", "Jupiter", "Saturn"),
		q("What gas do plants absorb from the atmosphere?", easy, 3, "Oxygen", "Nitrogen", "Helium", "Carbon dioxide"),
		q("How many bones are in the adult human body?", medium, 1, "186", "206", "226", "256"),
		q("What is the hardest natural substance?", easy, 0, "Diamond", "Quartz", "Granite", "Iron"),
		q("What particle has a negative charge?", easy, 2, "Proton", "Neutron", "Electron", "Photon"),
		q("What is the speed of light in vacuum, approximately?", medium, 0, "300,000 km/s", "150,000 km/s", "30,000 km/s", "1,000,000 km/s"),
		q("Which element has atomic number 1?", easy, 1, "Helium", "Hydrogen", "Lithium", "Oxygen"),
		q("What is the powerhouse of the cell?", easy, 3, "Nucleus", "Ribosome", "Golgi apparatus", "Mitochondria"),
		q("Which scientist proposed the theory of general relativity?", medium, 2, "Newton", "Bohr", "Einstein", "Curie"),
		q("What is the most abundant gas in Earth's atmosphere?", medium, 1, "Oxygen", "Nitrogen", "Argon", "Carbon dioxide"),
		q("What is the SI unit of electrical resistance?", hard, 0, "Ohm", "Volt", "Ampere", "Tesla"),
		q("Which blood type is the universal donor?", hard, 3, "A+", "AB+", "B-", "O-"),
		q("What is the half-life of Carbon-14, approximately?", hard, 2, "573 years", "1,730 years", "5,730 years", "57,300 years"),
	},
	"History": {
		q("What year did World War II end?", easy, 2, "1943", "1944", "1945", "1946"),
		q("Who was the first President of the United States?", easy, 0, "George Washington", "Thomas Jefferson", "John Adams", "Abraham Lincoln"),
		q("Which empire built the Colosseum?", easy, 1, "Greek", "Roman", "Ottoman", "Persian"),
		q("In which year did the Berlin Wall fall?", medium, 3, "1985", "1987", "1991", "1989"),
		q("Who was the first woman to fly solo across the Atlantic?", medium, 2, "Bessie Coleman", "Harriet Quimby", "Amelia Earhart", "Jacqueline Cochran"),
		q("Which ancient wonder stood in Alexandria?", medium, 0, "The Lighthouse", "The Colossus", "The Hanging Gardens", "The Mausoleum"),
		q("Who wrote the Communist Manifesto with Karl Marx?", medium, 1, "Lenin", "Friedrich Engels", "Trotsky", "Bakunin"),
		q("The Magna Carta was signed in which year?", hard, 2, "1066", "1189", "1215", "1348"),
		q("Which civilization built Machu Picchu?", easy, 3, "Aztec", "Maya", "Olmec", "Inca"),
		q("Who was the last Tsar of Russia?", medium, 0, "Nicholas II", "Alexander III", "Peter the Great", "Ivan IV"),
		q("Which war was fought between 1950 and 1953?", easy, 1, "Vietnam War", "Korean War", "Gulf War", "Falklands War"),
		q("The Treaty of Westphalia ended which war?", hard, 2, "Hundred Years' War", "War of the Roses", "Thirty Years' War", "Seven Years' War"),
		q("Who was the first emperor of unified China?", hard, 0, "Qin Shi Huang", "Kublai Khan", "Sun Yat-sen", "Liu Bang"),
	},
	"Geography": {
		q("What is the capital of France?", easy, 2, "London", "Berlin", "Paris", "Madrid"),
		q("What is the largest ocean on Earth?", easy, 3, "Atlantic", "Indian", "Arctic", "Pacific"),
		q("How many continents are there?", easy, 2, "5", "6", "7", "8"),
		q("What is the longest river in the world?", medium, 0, "Nile", "Amazon", "Yangtze", "Mississippi"),
		q("Which country has the most natural lakes?", hard, 1, "Russia", "Canada", "Finland", "USA"),
		q("What is the capital of Australia?", medium, 2, "Sydney", "Melbourne", "Canberra", "Perth"),
		q("Mount Kilimanjaro is located in which country?", medium, 3, "Kenya", "Uganda", "Ethiopia", "Tanzania"),
		q("Which desert is the largest hot desert?", easy, 0, "Sahara", "Gobi", "Kalahari", "Arabian"),
		q("What is the smallest country in the world?", easy, 1, "Monaco", "Vatican City", "San Marino", "Liechtenstein"),
		q("Which river flows through Baghdad?", hard, 2, "Euphrates", "Jordan", "Tigris", "Nile"),
		q("What is the capital of Canada?", medium, 1, "Toronto", "Ottawa", "Vancouver", "Montreal"),
		q("Which strait separates Europe and Africa?", hard, 0, "Gibraltar", "Bosporus", "Hormuz", "Malacca"),
		q("Lake Titicaca lies on the border of Peru and which country?", hard, 3, "Chile", "Ecuador", "Argentina", "Bolivia"),
	},
	"Sports": {
		q("How many players are on a soccer team on the field?", easy, 1, "10", "11", "12", "9"),
		q("In which sport is a shuttlecock used?", easy, 0, "Badminton", "Tennis", "Squash", "Volleyball"),
		q("How often are the Summer Olympics held?", easy, 2, "Every 2 years", "Every 3 years", "Every 4 years", "Every 5 years"),
		q("Which country won the first FIFA World Cup?", medium, 3, "Brazil", "Italy", "Argentina", "Uruguay"),
		q("What is the maximum score in a single frame of ten-pin bowling?", medium, 1, "20", "30", "25", "50"),
		q("How long is a marathon, approximately?", easy, 2, "26 km", "32 km", "42 km", "50 km"),
		q("In tennis, what is a score of zero called?", easy, 0, "Love", "Nil", "Duck", "Zero"),
		q("Which sport uses the term 'birdie'?", easy, 3, "Cricket", "Baseball", "Hockey", "Golf"),
		q("Who holds the record for most Olympic gold medals?", medium, 1, "Usain Bolt", "Michael Phelps", "Carl Lewis", "Mark Spitz"),
		q("How many points is a touchdown worth in American football?", medium, 2, "3", "7", "6", "5"),
		q("In which year were the first modern Olympic Games held?", hard, 0, "1896", "1900", "1888", "1912"),
		q("What is the diameter of a basketball hoop in inches?", hard, 1, "16", "18", "20", "22"),
	},
	"Entertainment": {
		q("Who painted the Mona Lisa?", easy, 2, "Van Gogh", "Picasso", "Da Vinci", "Michelangelo"),
		q("Who wrote 'Romeo and Juliet'?", easy, 1, "Dickens", "Shakespeare", "Austen", "Hemingway"),
		q("Which movie features the quote 'May the Force be with you'?", easy, 0, "Star Wars", "Star Trek", "Dune", "Alien"),
		q("What is the name of the wizard school in Harry Potter?", easy, 3, "Durmstrang", "Beauxbatons", "Ilvermorny", "Hogwarts"),
		q("Which band released the album 'Abbey Road'?", medium, 1, "The Rolling Stones", "The Beatles", "Pink Floyd", "Queen"),
		q("Who directed 'Jurassic Park'?", medium, 2, "James Cameron", "George Lucas", "Steven Spielberg", "Ridley Scott"),
		q("Which video game character is a plumber?", easy, 0, "Mario", "Link", "Sonic", "Kirby"),
		q("What is the highest-grossing animated film franchise?", hard, 3, "Toy Story", "Shrek", "Frozen", "Despicable Me"),
		q("Which composer wrote 'The Four Seasons'?", medium, 1, "Bach", "Vivaldi", "Mozart", "Handel"),
		q("In which city is the Broadway theatre district?", easy, 2, "Chicago", "Los Angeles", "New York", "Boston"),
		q("Which TV series is set in the fictional town of Hawkins?", medium, 0, "Stranger Things", "Twin Peaks", "Riverdale", "Dark"),
		q("Who wrote the novel 'One Hundred Years of Solitude'?", hard, 2, "Jorge Luis Borges", "Mario Vargas Llosa", "Gabriel García Márquez", "Isabel Allende"),
	},
	"Food": {
		q("Which country invented pizza?", easy, 1, "USA", "Italy", "France", "Greece"),
		q("What is the main ingredient in guacamole?", easy, 3, "Tomato", "Pepper", "Onion", "Avocado"),
		q("Which spice is the most expensive by weight?", medium, 0, "Saffron", "Vanilla", "Cardamom", "Cinnamon"),
		q("What type of pasta is shaped like little ears?", hard, 2, "Farfalle", "Penne", "Orecchiette", "Fusilli"),
		q("Sushi traditionally includes which grain?", easy, 1, "Wheat", "Rice", "Barley", "Quinoa"),
		q("What is tofu made from?", easy, 0, "Soybeans", "Chickpeas", "Rice", "Lentils"),
		q("Which fruit is known as the king of fruits in Southeast Asia?", medium, 3, "Mango", "Jackfruit", "Mangosteen", "Durian"),
		q("What is the primary ingredient of hummus?", easy, 2, "Lentils", "Beans", "Chickpeas", "Peas"),
		q("Which cheese is traditionally used on a Margherita pizza?", easy, 1, "Cheddar", "Mozzarella", "Parmesan", "Gouda"),
		q("Kimchi originates from which country?", medium, 0, "Korea", "Japan", "China", "Vietnam"),
		q("What is the French term for a puff pastry filled with cream?", hard, 3, "Macaron", "Madeleine", "Canelé", "Profiterole"),
		q("Which nut is used to make marzipan?", medium, 2, "Walnut", "Hazelnut", "Almond", "Cashew"),
	},
}
